package score_test

import (
	"testing"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/index"
	"github.com/tandemms/search/mass"
	"github.com/tandemms/search/peptide"
	"github.com/tandemms/search/score"
	"github.com/tandemms/search/spectrum"
)

// buildDB indexes a small set of sequences and returns the database plus a
// lookup closure the scorer needs to resolve a PeptideIx back to its
// sequence, owning protein, and label.
func buildDB(t *testing.T, seqs ...string) (*index.Database, score.PeptideLookup) {
	t.Helper()
	var frags []fragment.Theoretical
	masses := make([]float64, len(seqs))
	peps := make([]peptide.Peptide, len(seqs))
	for i, s := range seqs {
		p := peptide.New(s, "P", peptide.Target)
		peps[i] = p
		masses[i] = p.MonoMass
		frags = append(frags, fragment.Generate(peptide.Ix(i), p)...)
	}
	db, err := index.Build(frags, masses, index.Config{BucketSize: 0.02})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lookup := func(ix peptide.Ix) (string, string, peptide.Label) {
		p := peps[ix]
		return p.Sequence, p.Protein, p.Label
	}
	return db, lookup
}

// syntheticSpectrum builds a fully matching b/y-ion spectrum for seq at
// uniform intensity, per spec §8 scenario 1.
func syntheticSpectrum(seq string, mz float64) spectrum.Processed {
	p := peptide.New(seq, "P", peptide.Target)
	frags := fragment.Generate(0, p)
	peaks := make([]spectrum.Peak, len(frags))
	for i, f := range frags {
		peaks[i] = spectrum.Peak{MZ: f.MZ, Intensity: 1.0}
	}
	return spectrum.Processed{
		ScanNumber:      1,
		PrecursorMass:   mz,
		PrecursorCharge: 2,
		Peaks:           peaks,
	}
}

func TestScoreSingleSyntheticPeptide(t *testing.T) {
	const seq = "LQSRPAAPPAPGPGQLTLR"
	p := peptide.New(seq, "P", peptide.Target)
	db, lookup := buildDB(t, seq)
	ps := syntheticSpectrum(seq, p.MonoMass)

	s := score.New(db)
	qopt := index.QueryOptions{
		PrecursorTol: mass.NewPPM(-50, 50),
		FragmentTol:  mass.NewPPM(-10, 10),
	}
	psms := s.Score(ps, qopt, score.Config{MinMatchedPeaks: 4, ReportPSMs: 5}, lookup)
	if len(psms) != 1 {
		t.Fatalf("expected exactly 1 PSM, got %d", len(psms))
	}
	want := 2 * (len(seq) - 1)
	if psms[0].MatchedPeaks != want {
		t.Errorf("MatchedPeaks = %d, want %d", psms[0].MatchedPeaks, want)
	}
	if psms[0].Peptide != seq {
		t.Errorf("Peptide = %q, want %q", psms[0].Peptide, seq)
	}
}

// TestScorePartialSpectrumMatches21MatchedPeaks mirrors original_source's
// crates/sage-cli/tests/integration.rs, whose real mzML fixture for this
// peptide only covers a subset of the full 36-fragment b/y series (21
// matched peaks). That mzML fixture isn't part of this repository, so the
// subset is reproduced synthetically: a spectrum built from exactly 21 of
// the peptide's 36 theoretical fragments.
func TestScorePartialSpectrumMatches21MatchedPeaks(t *testing.T) {
	const seq = "LQSRPAAPPAPGPGQLTLR"
	p := peptide.New(seq, "P", peptide.Target)
	db, lookup := buildDB(t, seq)

	frags := fragment.Generate(0, p)
	const wantMatched = 21
	peaks := make([]spectrum.Peak, wantMatched)
	for i := 0; i < wantMatched; i++ {
		peaks[i] = spectrum.Peak{MZ: frags[i].MZ, Intensity: 1.0}
	}
	ps := spectrum.Processed{ScanNumber: 1, PrecursorMass: p.MonoMass, PrecursorCharge: 2, Peaks: peaks}

	s := score.New(db)
	qopt := index.QueryOptions{
		PrecursorTol:  mass.NewPPM(-50, 50),
		FragmentTol:   mass.NewPPM(-10, 10),
		MinIsotopeErr: -1,
		MaxIsotopeErr: 3,
	}
	psms := s.Score(ps, qopt, score.Config{MinMatchedPeaks: 4, ReportPSMs: 1}, lookup)
	if len(psms) != 1 {
		t.Fatalf("expected exactly 1 PSM, got %d", len(psms))
	}
	if psms[0].MatchedPeaks != wantMatched {
		t.Errorf("MatchedPeaks = %d, want %d", psms[0].MatchedPeaks, wantMatched)
	}
}

func TestScoreEmptySpectrumYieldsEmptyPSMList(t *testing.T) {
	db, lookup := buildDB(t, "PEPTIDEK")
	s := score.New(db)
	ps := spectrum.Processed{PrecursorMass: peptide.Mass("PEPTIDEK")}
	psms := s.Score(ps, index.QueryOptions{
		PrecursorTol: mass.NewPPM(-50, 50),
		FragmentTol:  mass.NewPPM(-10, 10),
	}, score.Config{MinMatchedPeaks: 4, ReportPSMs: 5}, lookup)
	if len(psms) != 0 {
		t.Fatalf("expected empty PSM list for an empty spectrum, got %d", len(psms))
	}
}

func TestScoreRejectsBelowMinMatchedPeaks(t *testing.T) {
	const seq = "PEPTIDEK"
	p := peptide.New(seq, "P", peptide.Target)
	db, lookup := buildDB(t, seq)
	ps := syntheticSpectrum(seq, p.MonoMass)
	// Keep only a single peak: far below any reasonable MinMatchedPeaks.
	ps.Peaks = ps.Peaks[:1]

	s := score.New(db)
	psms := s.Score(ps, index.QueryOptions{
		PrecursorTol: mass.NewPPM(-50, 50),
		FragmentTol:  mass.NewPPM(-10, 10),
	}, score.Config{MinMatchedPeaks: 4, ReportPSMs: 5}, lookup)
	if len(psms) != 0 {
		t.Fatalf("expected candidates under MinMatchedPeaks to be rejected, got %d", len(psms))
	}
}

func TestScoreTieBreakByPeptideIxAscending(t *testing.T) {
	// I and L share a residue mass, so these two peptides produce identical
	// fragment m/z values and identical hyperscores against the same
	// spectrum; equal-hyperscore candidates must come out in ascending
	// PeptideIx order, and repeated calls must agree.
	const seqA, seqB = "PEPTIDEK", "PEPTLDEK"
	p := peptide.New(seqA, "P", peptide.Target)
	db, lookup := buildDB(t, seqA, seqB)
	ps := syntheticSpectrum(seqA, p.MonoMass)
	s := score.New(db)
	cfg := score.Config{MinMatchedPeaks: 4, ReportPSMs: 5}
	qopt := index.QueryOptions{PrecursorTol: mass.NewPPM(-50, 50), FragmentTol: mass.NewPPM(-10, 10)}
	first := s.Score(ps, qopt, cfg, lookup)
	if len(first) != 2 {
		t.Fatalf("expected 2 PSMs for the isobaric pair, got %d", len(first))
	}
	if first[0].Hyperscore != first[1].Hyperscore {
		t.Fatalf("expected tied hyperscores, got %v and %v", first[0].Hyperscore, first[1].Hyperscore)
	}
	if first[0].Peptide != seqA || first[1].Peptide != seqB {
		t.Errorf("tie order = [%q %q], want [%q %q] (PeptideIx ascending)", first[0].Peptide, first[1].Peptide, seqA, seqB)
	}
	second := s.Score(ps, qopt, cfg, lookup)
	if first[0].Hyperscore != second[0].Hyperscore {
		t.Errorf("expected deterministic hyperscore across repeated calls")
	}
}

func TestWideWindowStillScores(t *testing.T) {
	const seq = "PEPTIDEK"
	p := peptide.New(seq, "P", peptide.Target)
	db, lookup := buildDB(t, seq)
	ps := syntheticSpectrum(seq, p.MonoMass+500) // precursor far off, but wide_window bypasses it
	s := score.New(db)
	psms := s.Score(ps, index.QueryOptions{
		PrecursorTol: mass.NewPPM(0, 0),
		FragmentTol:  mass.NewPPM(-10, 10),
		WideWindow:   true,
	}, score.Config{MinMatchedPeaks: 4, ReportPSMs: 5}, lookup)
	if len(psms) == 0 {
		t.Fatal("wide_window mode should still score fragment-only matches")
	}
}

func TestChimeraRecoversBothPeptides(t *testing.T) {
	const seqA = "PEPTIDEK"
	const seqB = "SAMPLERPEPTIDE"
	db, lookup := buildDB(t, seqA, seqB)
	pa := peptide.New(seqA, "P", peptide.Target)
	pb := peptide.New(seqB, "P", peptide.Target)

	fragsA := fragment.Generate(0, pa)
	fragsB := fragment.Generate(1, pb)
	var peaks []spectrum.Peak
	for _, f := range fragsA {
		peaks = append(peaks, spectrum.Peak{MZ: f.MZ, Intensity: 1.0})
	}
	for _, f := range fragsB {
		peaks = append(peaks, spectrum.Peak{MZ: f.MZ, Intensity: 1.0})
	}
	ps := spectrum.Processed{ScanNumber: 1, PrecursorMass: pa.MonoMass, PrecursorCharge: 2, Peaks: peaks}

	s := score.New(db)
	psms := s.Score(ps, index.QueryOptions{
		PrecursorTol: mass.NewPPM(0, 0),
		FragmentTol:  mass.NewPPM(-10, 10),
		WideWindow:   true,
	}, score.Config{MinMatchedPeaks: 4, ReportPSMs: 2, Chimera: true}, lookup)

	if len(psms) != 2 {
		t.Fatalf("expected 2 chimera PSMs, got %d", len(psms))
	}
	seen := map[string]bool{psms[0].Peptide: true, psms[1].Peptide: true}
	if !seen[seqA] || !seen[seqB] {
		t.Errorf("expected both %q and %q recovered, got %v", seqA, seqB, seen)
	}
}
