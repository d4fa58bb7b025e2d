package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tandemms/search/internal/applog"
	"github.com/tandemms/search/internal/pipeline"
	"github.com/tandemms/search/internal/proteinio"
	"github.com/tandemms/search/internal/spectraio"
)

func newSearchCmd() *cobra.Command {
	var fastaPath, scansPath string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search a peak-list file against a FASTA protein database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getCLIContext(cmd)
			if err != nil {
				return err
			}
			return runSearch(cmd, cliCtx, fastaPath, scansPath)
		},
	}

	cmd.Flags().StringVar(&fastaPath, "fasta", "", "path to the FASTA protein database (required)")
	cmd.Flags().StringVar(&scansPath, "scans", "", "path to the peak-list scan file (required)")
	cmd.MarkFlagRequired("fasta")
	cmd.MarkFlagRequired("scans")

	return cmd
}

func runSearch(cmd *cobra.Command, cliCtx *CLIContext, fastaPath, scansPath string) error {
	log := cliCtx.Logger.Named("search")

	proteins, err := proteinio.ReadFASTAFile(fastaPath)
	if err != nil {
		return fmt.Errorf("reading fasta: %w", err)
	}
	log.Info("loaded proteins", applog.Int("count", len(proteins)))

	db, err := pipeline.BuildDatabase(proteins, cliCtx.Config, log)
	if err != nil {
		return fmt.Errorf("building database: %w", err)
	}
	log.Info("built fragment index", applog.Int("fragments", db.Index.NumFragments()))

	raws, err := spectraio.ReadScansFile(scansPath)
	if err != nil {
		return fmt.Errorf("reading scans: %w", err)
	}

	psms, stats, err := pipeline.RunSearch(cmd.Context(), db, raws, cliCtx.Config, log)
	if err != nil {
		return fmt.Errorf("running search: %w", err)
	}

	summary := pipeline.Summarize(psms, stats.Elapsed)
	var spectraPerSec float64
	if stats.Elapsed > 0 {
		spectraPerSec = float64(stats.SpectraProcessed) / stats.Elapsed.Seconds()
	}
	result := struct {
		SpectraProcessed int     `json:"spectra_processed"`
		PSMsPassing      int     `json:"psms_passing_fdr"`
		MedianHyperscore float64 `json:"median_hyperscore"`
		SpectraPerSec    float64 `json:"spectra_per_second"`
	}{
		SpectraProcessed: stats.SpectraProcessed,
		PSMsPassing:      stats.PSMsPassing,
		MedianHyperscore: summary.Median,
		SpectraPerSec:    spectraPerSec,
	}

	return printResult(cmd, cliCtx, result)
}
