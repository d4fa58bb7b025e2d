package score

import "github.com/tandemms/search/peptide"

// spectrumQValues computes per-spectrum q-values for a hyperscore-sorted
// candidate list (spec §4.G step 8): walk forward maintaining running
// targets (init 0) and decoys (init 1, a pseudocount), assign
// q = decoys/targets, then sweep in reverse replacing each q with the
// running minimum so q never decreases further down the ranking.
func spectrumQValues(candidates []candidate, lookup PeptideLookup) []float64 {
	q := make([]float64, len(candidates))
	targets, decoys := 0, 1
	for i, c := range candidates {
		_, _, label := lookup(c.ix)
		if label == peptide.Target {
			targets++
		} else {
			decoys++
		}
		q[i] = float64(decoys) / float64(targets)
	}
	min := q[len(q)-1]
	for i := len(q) - 1; i >= 0; i-- {
		if q[i] < min {
			min = q[i]
		}
		q[i] = min
	}
	return q
}
