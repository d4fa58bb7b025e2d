// Package pipeline wires the database build and spectrum-scoring fan-out
// described in §5: build the theoretical fragment database once, then score
// every spectrum against it concurrently, bounded by a worker count.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/index"
	"github.com/tandemms/search/internal/applog"
	"github.com/tandemms/search/internal/config"
	"github.com/tandemms/search/internal/errs"
	"github.com/tandemms/search/mass"
	"github.com/tandemms/search/peptide"
	"github.com/tandemms/search/score"
	"github.com/tandemms/search/spectrum"
)

// Database bundles the built fragment index with the peptide table the
// scorer needs to resolve a PeptideIx back to a sequence/protein/label,
// per §4.D and §4.G's PeptideLookup contract.
type Database struct {
	Index    *index.Database
	peptides []peptide.Peptide
}

// Lookup implements score.PeptideLookup against the built peptide table.
func (d *Database) Lookup(ix peptide.Ix) (sequence, protein string, label peptide.Label) {
	p := d.peptides[ix]
	return p.Sequence, p.Protein, p.Label
}

// BuildDatabase digests every protein per cfg.Digest, deduplicates the
// resulting peptides (target wins over decoy), generates b/y theoretical
// fragments for each, and indexes them into buckets of cfg.Index.BucketSize
// width (§4.B–§4.D).
//
// A protein carrying a non-standard residue code (X, U, B, Z, J, ...) is
// MalformedInput (spec §7): it is quarantined here, logged, and dropped,
// rather than being allowed to panic mass.Monoisotopic deep inside Digest
// and crash the whole run.
func BuildDatabase(proteins []peptide.Protein, cfg *config.Config, log applog.Logger) (*Database, error) {
	digestCfg := peptide.DigestConfig{
		Rule:               peptide.Trypsin,
		MinLen:             cfg.Digest.MinLen,
		MaxLen:             cfg.Digest.MaxLen,
		MaxMissedCleavages: cfg.Digest.MissedCleavages,
	}

	var all []peptide.Peptide
	for _, prot := range proteins {
		peps, err := digestProtein(prot, digestCfg)
		if err != nil {
			if errs.Is(err, errs.MalformedInput) {
				log.Warn("dropping malformed protein", applog.String("accession", prot.Accession), applog.Err(err))
			} else {
				log.Warn("dropping protein after digest error", applog.String("accession", prot.Accession), applog.Err(err))
			}
			continue
		}
		all = append(all, peps...)
	}
	deduped := peptide.Dedup(all)

	var frags []fragment.Theoretical
	masses := make([]float64, len(deduped))
	for i, p := range deduped {
		ix := peptide.Ix(i)
		frags = append(frags, fragment.Generate(ix, p)...)
		masses[i] = p.MonoMass
	}

	idx, err := index.Build(frags, masses, index.Config{BucketSize: cfg.Index.BucketSize})
	if err != nil {
		return nil, err
	}
	return &Database{Index: idx, peptides: deduped}, nil
}

// digestProtein validates prot.Sequence against the 20-letter amino acid
// alphabet before handing it to peptide.Digest, and recovers a panic from
// any residue that slips past validation (a defensive backstop, not the
// primary quarantine path). Either case is reported as a MalformedInput
// error so the caller can drop the offending protein instead of the whole
// run, per spec §7.
func digestProtein(prot peptide.Protein, cfg peptide.DigestConfig) (peps []peptide.Peptide, err error) {
	if badErr := validateSequence(prot.Sequence); badErr != nil {
		return nil, badErr
	}
	defer func() {
		if r := recover(); r != nil {
			err = errs.Wrap(fmt.Errorf("%v", r), errs.MalformedInput, "pipeline: panic digesting protein "+prot.Accession)
			peps = nil
		}
	}()
	return peptide.Digest(prot, cfg), nil
}

// validateSequence reports the first character of seq that is not one of
// the 20 standard amino acids, as a MalformedInput error, or nil if seq is
// non-empty and entirely valid.
func validateSequence(seq string) error {
	if len(seq) == 0 {
		return errs.New(errs.MalformedInput, "pipeline: empty protein sequence")
	}
	for i := 0; i < len(seq); i++ {
		if !mass.IsValid(seq[i]) {
			return errs.New(errs.MalformedInput, fmt.Sprintf("pipeline: invalid residue %q at position %d", seq[i], i))
		}
	}
	return nil
}

// queryOptions translates cfg.Search into the index.QueryOptions the
// scorer needs for every spectrum in the batch.
func queryOptions(cfg *config.Config) index.QueryOptions {
	return index.QueryOptions{
		PrecursorTol:  mass.NewPPM(cfg.Search.PrecursorTolPPMLo, cfg.Search.PrecursorTolPPMHi),
		FragmentTol:   mass.NewPPM(cfg.Search.FragmentTolPPMLo, cfg.Search.FragmentTolPPMHi),
		MinIsotopeErr: cfg.Search.MinIsotopeErr,
		MaxIsotopeErr: cfg.Search.MaxIsotopeErr,
		WideWindow:    cfg.Search.WideWindow,
	}
}

// Stats summarizes one RunSearch invocation for operator-facing logging.
type Stats struct {
	SpectraProcessed int
	PSMsEmitted      int
	PSMsPassing      int
	Elapsed          time.Duration
}

// RunSearch processes every raw spectrum concurrently (bounded by
// cfg.Worker.Concurrency goroutines via an errgroup), scores each against
// db, aggregates all PSMs, and assigns global target-decoy q-values before
// returning. Processing stops at the first per-spectrum error; ctx
// cancellation propagates to every in-flight worker.
func RunSearch(ctx context.Context, db *Database, raws []spectrum.Raw, cfg *config.Config, log applog.Logger) ([]score.PSM, Stats, error) {
	start := time.Now()
	specCfg := spectrum.Config{
		MaxPeaks:          cfg.Spectrum.MaxPeaks,
		MinFragmentMass:   cfg.Spectrum.MinFragmentMass,
		MaxFragmentMass:   cfg.Spectrum.MaxFragmentMass,
		Deisotope:         cfg.Spectrum.Deisotope,
		MaxFragmentCharge: cfg.Spectrum.MaxFragmentCharge,
	}
	scoreCfg := score.Config{
		MinMatchedPeaks: cfg.Scoring.MinMatchedPeaks,
		ReportPSMs:      cfg.Scoring.ReportPSMs,
		Chimera:         cfg.Scoring.Chimera,
	}
	qopt := queryOptions(cfg)
	scorer := score.New(db.Index)

	results := make([][]score.PSM, len(raws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Worker.Concurrency)

	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			processed := spectrum.Process(raw, specCfg)
			if len(processed.Peaks) < cfg.Spectrum.MinPeaks {
				log.Debug("spectrum below min_peaks, skipping",
					applog.Int("scan_number", raw.ScanNumber),
					applog.Int("peak_count", len(processed.Peaks)))
				return nil
			}
			psms := scorer.Score(processed, qopt, scoreCfg, db.Lookup)
			results[i] = psms
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var flat []*score.PSM
	for _, psms := range results {
		for j := range psms {
			flat = append(flat, &psms[j])
		}
	}
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].ScanNumber < flat[j].ScanNumber
	})

	ranked, passing := score.RankAll(flat)
	out := make([]score.PSM, len(ranked))
	for i, p := range ranked {
		out[i] = *p
	}

	log.Info("search completed",
		applog.Int("spectra_processed", len(raws)),
		applog.Int("psms_emitted", len(out)),
		applog.Int("psms_passing", passing),
		applog.Duration("elapsed", time.Since(start)))

	return out, Stats{
		SpectraProcessed: len(raws),
		PSMsEmitted:      len(out),
		PSMsPassing:      passing,
		Elapsed:          time.Since(start),
	}, nil
}

// HyperscoreSummary reports the median and standard deviation of a PSM
// batch's hyperscores plus the achieved throughput, for operator-facing
// run summaries.
type HyperscoreSummary struct {
	Median float64
	StdDev float64
	// SpectraPerSec is len(psms) divided by the elapsed seconds: PSMs per
	// second, which equals spectra per second only when every spectrum
	// contributed exactly one PSM.
	SpectraPerSec float64
}

// Summarize computes a HyperscoreSummary over psms given the elapsed wall
// time a RunSearch invocation took to produce them.
func Summarize(psms []score.PSM, elapsed time.Duration) HyperscoreSummary {
	if len(psms) == 0 {
		return HyperscoreSummary{}
	}
	scores := make([]float64, len(psms))
	for i, p := range psms {
		scores[i] = p.Hyperscore
	}
	sort.Float64s(scores)

	_, stdDev := stat.MeanStdDev(scores, nil)
	median := stat.Quantile(0.5, stat.Empirical, scores, nil)

	var perSec float64
	if elapsed > 0 {
		perSec = float64(len(psms)) / elapsed.Seconds()
	}
	return HyperscoreSummary{Median: median, StdDev: stdDev, SpectraPerSec: perSec}
}
