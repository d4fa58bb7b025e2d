// Package score correlates a processed spectrum against indexed-database
// candidates, computes the X!Tandem hyperscore, and ranks peptide-spectrum
// matches (spec §4.G).
package score

import (
	"math"
	"sort"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/index"
	"github.com/tandemms/search/peptide"
	"github.com/tandemms/search/spectrum"
)

// Config bundles the scorer's tunables from spec §6.
type Config struct {
	MinMatchedPeaks int
	ReportPSMs      int
	Chimera         bool
}

// PSM is the reported match, carrying every field spec §3/§6 names.
type PSM struct {
	Peptide              string
	Protein              string
	ScanNumber           int
	Label                peptide.Label
	ObservedMass         float64
	CalculatedMass       float64
	Charge               int
	RetentionTime        float64
	MassDelta            float64
	Hyperscore           float64
	DeltaScore           float64
	MatchedPeaks         int
	PercentMatchedPeaks  float64
	MatchedIntensity     float64
	PercentMatchedIntens float64
	CandidateCount       int
	SpectrumQValue       float64
	QValue               float64

	peptideIx peptide.Ix // retained for emission lookups; not part of the output contract
}

// candidate pairs a ranked peptide with its hyperscore and raw accumulator,
// the unit spectrumQValues and the emission loop both operate on.
type candidate struct {
	ix         peptide.Ix
	hyperscore float64
	a          *accumulator
}

// accumulator is the per-candidate partial score record spec §4.G describes:
// a mapping from PeptideIx to {matched_b, matched_y, summed_b, summed_y}.
type accumulator struct {
	matchedB, matchedY int
	summedB, summedY   float64
}

// Scorer holds an immutable reference to the database plus a precomputed
// factorial table, per spec §4.G / §5 (shared read-only across workers; a
// Scorer carries no mutable state of its own beyond per-call locals).
type Scorer struct {
	db        *index.Database
	factorial [32]float64
}

// New builds a Scorer bound to db, precomputing factorial[0..31]. The
// hyperscore clamps match counts above 30 to index 30 (spec §4.G), so only
// factorial[0..30] is ever read.
func New(db *index.Database) *Scorer {
	s := &Scorer{db: db}
	s.factorial[0] = 1
	for i := 1; i < 32; i++ {
		s.factorial[i] = s.factorial[i-1] * float64(i)
	}
	return s
}

// PeptideLookup resolves a PeptideIx to the identifying fields a PSM needs
// for emission (sequence, owning protein, label). The scorer never owns
// peptide records outside of this read-only lookup.
type PeptideLookup func(peptide.Ix) (sequence, protein string, label peptide.Label)

// Score correlates ps against every candidate index.Query surfaces, ranks
// them by hyperscore, rejects under-matched candidates, assigns
// spectrum-local q-values, and emits up to cfg.ReportPSMs PSMs.
func (s *Scorer) Score(ps spectrum.Processed, qopt index.QueryOptions, cfg Config, lookup PeptideLookup) []PSM {
	q := s.db.Query(ps.PrecursorMass, qopt)
	if cfg.Chimera {
		return s.chimeraScore(ps, q, cfg, lookup)
	}
	return s.scorePass(ps, q, cfg, lookup, nil)
}

// scorePass runs one accumulate-rank-reject pass, optionally excluding
// already-reported peptides (used by chimera mode's second pass).
func (s *Scorer) scorePass(ps spectrum.Processed, q *index.Query, cfg Config, lookup PeptideLookup, exclude map[peptide.Ix]bool) []PSM {
	acc := map[peptide.Ix]*accumulator{}
	var totalIntensity float64
	for _, peak := range ps.Peaks {
		totalIntensity += peak.Intensity
		for _, hit := range q.PageSearch(peak.MZ) {
			if exclude != nil && exclude[hit.PeptideIx] {
				continue
			}
			a := acc[hit.PeptideIx]
			if a == nil {
				a = &accumulator{}
				acc[hit.PeptideIx] = a
			}
			switch hit.Kind {
			case fragment.B:
				a.matchedB++
				a.summedB += peak.Intensity
			case fragment.Y:
				a.matchedY++
				a.summedY += peak.Intensity
			}
		}
	}
	if len(acc) == 0 {
		return nil
	}

	candidates := make([]candidate, 0, len(acc))
	for ix, a := range acc {
		candidates = append(candidates, candidate{ix: ix, hyperscore: s.hyperscore(a), a: a})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].hyperscore != candidates[j].hyperscore {
			return candidates[i].hyperscore > candidates[j].hyperscore
		}
		return candidates[i].ix < candidates[j].ix
	})

	kept := candidates[:0]
	for _, c := range candidates {
		if c.a.matchedB+c.a.matchedY >= cfg.MinMatchedPeaks {
			kept = append(kept, c)
		}
	}
	candidates = kept
	if len(candidates) == 0 {
		return nil
	}

	qvalues := spectrumQValues(candidates, lookup)

	n := cfg.ReportPSMs
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	out := make([]PSM, 0, n)
	for i := 0; i < n; i++ {
		c := candidates[i]
		seq, protein, label := lookup(c.ix)
		calc := s.db.PeptideMass(c.ix)
		matched := c.a.matchedB + c.a.matchedY

		var delta float64
		if i+1 < len(candidates) {
			delta = c.hyperscore - candidates[i+1].hyperscore
		}
		matchedIntensity := c.a.summedB + c.a.summedY

		psm := PSM{
			Peptide:              seq,
			Protein:              protein,
			ScanNumber:           ps.ScanNumber,
			Label:                label,
			ObservedMass:         ps.PrecursorMass,
			CalculatedMass:       calc,
			Charge:               ps.PrecursorCharge,
			RetentionTime:        ps.RetentionTime,
			MassDelta:            ps.PrecursorMass - calc,
			Hyperscore:           c.hyperscore,
			DeltaScore:           delta,
			MatchedPeaks:         matched,
			CandidateCount:       len(candidates),
			MatchedIntensity:     matchedIntensity,
			SpectrumQValue:       qvalues[i],
			peptideIx:            c.ix,
		}
		if len(ps.Peaks) > 0 {
			psm.PercentMatchedPeaks = 100 * float64(matched) / float64(len(ps.Peaks))
		}
		if totalIntensity > 0 {
			psm.PercentMatchedIntens = 100 * matchedIntensity / totalIntensity
		}
		out = append(out, psm)
	}
	return out
}

// chimeraScore emits only the single top PSM per pass, subtracts its
// matched peaks from the spectrum, and rescores the residual, repeating
// until cfg.ReportPSMs distinct peptides have been emitted or no further
// candidate survives (spec §4.G chimera mode).
func (s *Scorer) chimeraScore(ps spectrum.Processed, q *index.Query, cfg Config, lookup PeptideLookup) []PSM {
	singleCfg := cfg
	singleCfg.ReportPSMs = 1

	first := s.scorePass(ps, q, singleCfg, lookup, nil)
	if len(first) == 0 {
		return nil
	}
	out := append([]PSM{}, first[0])
	exclude := map[peptide.Ix]bool{first[0].peptideIx: true}
	residual := ps

	for len(out) < cfg.ReportPSMs {
		residual = subtractPeaks(residual, q, out[len(out)-1].peptideIx, s.db)
		next := s.scorePass(residual, q, singleCfg, lookup, exclude)
		if len(next) == 0 {
			break
		}
		out = append(out, next[0])
		exclude[next[0].peptideIx] = true
	}
	return out
}

// subtractPeaks removes every peak that matched peptideIx's theoretical
// fragments from ps, leaving the residual spectrum for a chimera rescore.
func subtractPeaks(ps spectrum.Processed, q *index.Query, peptideIx peptide.Ix, db *index.Database) spectrum.Processed {
	matched := map[float64]bool{}
	for _, peak := range ps.Peaks {
		for _, hit := range q.PageSearch(peak.MZ) {
			if hit.PeptideIx == peptideIx {
				matched[peak.MZ] = true
				break
			}
		}
	}
	residual := ps
	residual.Peaks = make([]spectrum.Peak, 0, len(ps.Peaks))
	for _, p := range ps.Peaks {
		if !matched[p.MZ] {
			residual.Peaks = append(residual.Peaks, p)
		}
	}
	return residual
}

// hyperscore computes ln((sum_b+1)(sum_y+1)) + ln(b! * y!), clamping to the
// largest finite float64 if the result overflows (spec §4.G step 5, §7
// DegenerateHyperscore).
func (s *Scorer) hyperscore(a *accumulator) float64 {
	b := clampFactorialIndex(a.matchedB)
	y := clampFactorialIndex(a.matchedY)
	score := math.Log((a.summedB+1)*(a.summedY+1)) + math.Log(s.factorial[b]*s.factorial[y])
	if math.IsInf(score, 0) || math.IsNaN(score) {
		return math.MaxFloat64
	}
	return score
}

func clampFactorialIndex(n int) int {
	if n > 30 {
		return 30
	}
	if n < 0 {
		return 0
	}
	return n
}
