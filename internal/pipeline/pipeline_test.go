package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/internal/applog"
	"github.com/tandemms/search/internal/config"
	"github.com/tandemms/search/internal/pipeline"
	"github.com/tandemms/search/peptide"
	"github.com/tandemms/search/score"
	"github.com/tandemms/search/spectrum"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Spectrum.MinPeaks = 1
	return cfg
}

func syntheticRaw(scanNumber int, p peptide.Peptide) spectrum.Raw {
	peaks := []spectrum.Peak{}
	for _, f := range fragment.Generate(0, p) {
		peaks = append(peaks, spectrum.Peak{MZ: f.MZ, Intensity: 1.0})
	}
	return spectrum.Raw{
		ScanNumber:      scanNumber,
		PrecursorMass:   p.MonoMass,
		PrecursorCharge: 2,
		Peaks:           peaks,
	}
}

func TestBuildDatabaseIndexesDigestedPeptides(t *testing.T) {
	cfg := testConfig()
	proteins := []peptide.Protein{{Accession: "P1", Sequence: "MPEPTIDEKPEPTIDER"}}
	db, err := pipeline.BuildDatabase(proteins, cfg, applog.NewNop())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}
	if db.Index.NumFragments() == 0 {
		t.Fatal("expected a non-empty fragment index")
	}
}

func TestBuildDatabaseQuarantinesMalformedProtein(t *testing.T) {
	cfg := testConfig()
	proteins := []peptide.Protein{
		{Accession: "BAD", Sequence: "MPEPTXDEK"}, // X is not a standard amino acid
		{Accession: "GOOD", Sequence: "MPEPTIDEK"},
	}
	db, err := pipeline.BuildDatabase(proteins, cfg, applog.NewNop())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}
	if db.Index.NumFragments() == 0 {
		t.Fatal("expected the well-formed protein to still be indexed")
	}
}

func TestRunSearchScoresEveryScan(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.MinMatchedPeaks = 2
	cfg.Search.WideWindow = true
	cfg.Worker.Concurrency = 2

	proteins := []peptide.Protein{{Accession: "P1", Sequence: "MPEPTIDEK"}}
	db, err := pipeline.BuildDatabase(proteins, cfg, applog.NewNop())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}

	p := peptide.New("PEPTIDEK", "P1", peptide.Target)
	raws := []spectrum.Raw{
		syntheticRaw(1, p),
		syntheticRaw(2, p),
	}

	psms, stats, err := pipeline.RunSearch(context.Background(), db, raws, cfg, applog.NewNop())
	if err != nil {
		t.Fatalf("RunSearch: %v", err)
	}
	if stats.SpectraProcessed != 2 {
		t.Errorf("SpectraProcessed = %d, want 2", stats.SpectraProcessed)
	}
	if len(psms) == 0 {
		t.Fatal("expected at least one PSM")
	}
}

func TestRunSearchRespectsContextCancellation(t *testing.T) {
	cfg := testConfig()
	proteins := []peptide.Protein{{Accession: "P1", Sequence: "MPEPTIDEK"}}
	db, err := pipeline.BuildDatabase(proteins, cfg, applog.NewNop())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := peptide.New("PEPTIDEK", "P1", peptide.Target)
	raws := []spectrum.Raw{syntheticRaw(1, p)}

	_, _, err = pipeline.RunSearch(ctx, db, raws, cfg, applog.NewNop())
	if err == nil {
		t.Fatal("expected RunSearch to report the cancelled context")
	}
}

func TestSummarizeEmptyIsZeroValue(t *testing.T) {
	got := pipeline.Summarize(nil, time.Second)
	if got.Median != 0 || got.StdDev != 0 || got.SpectraPerSec != 0 {
		t.Errorf("expected zero-value summary for an empty PSM list, got %+v", got)
	}
}

func TestSummarizeComputesThroughput(t *testing.T) {
	psms := []score.PSM{{Hyperscore: 10}, {Hyperscore: 20}, {Hyperscore: 30}}
	got := pipeline.Summarize(psms, 3*time.Second)
	if got.Median != 20 {
		t.Errorf("Median = %v, want 20", got.Median)
	}
	if got.SpectraPerSec != 1 {
		t.Errorf("SpectraPerSec = %v, want 1", got.SpectraPerSec)
	}
}
