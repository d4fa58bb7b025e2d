// Command tandemsearch is the search engine's CLI entry point: it loads
// configuration, builds the theoretical fragment database from a FASTA
// file, scores every spectrum in a peak-list file against it, assigns
// global target-decoy q-values, and prints a run summary (spectra
// processed, PSMs passing 1% FDR, median hyperscore, throughput).
package main

import (
	"fmt"
	"os"

	"github.com/tandemms/search/cmd/tandemsearch/cli"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
}

func main() {
	rootCmd := cli.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
