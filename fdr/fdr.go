// Package fdr implements global target-decoy FDR estimation: sorting the
// aggregated PSM list and converting it to monotonically non-decreasing
// q-values (spec §4.H).
package fdr

import "sort"

// Scored is the minimal shape fdr needs from a PSM: its rank key and its
// target/decoy sign, plus a settable slot for the resulting q-value.
type Scored interface {
	Hyperscore() float64
	IsTarget() bool
	SetQValue(float64)
}

// AssignQValues sorts psms by hyperscore descending (if not already
// sorted), walks once forward accumulating targets/decoys with the same
// +1 decoy pseudocount as the per-spectrum pass, writes q = decoys/targets
// into every record, then walks backward taking the cumulative minimum so
// q is monotonically non-decreasing as score decreases. It returns the
// number of PSMs with q <= 0.01, the 1%-FDR count.
func AssignQValues(psms []Scored) int {
	sort.SliceStable(psms, func(i, j int) bool {
		return psms[i].Hyperscore() > psms[j].Hyperscore()
	})

	q := make([]float64, len(psms))
	targets, decoys := 0, 1
	for i, p := range psms {
		if p.IsTarget() {
			targets++
		} else {
			decoys++
		}
		q[i] = float64(decoys) / float64(targets)
	}

	min := 0.0
	if len(q) > 0 {
		min = q[len(q)-1]
	}
	for i := len(q) - 1; i >= 0; i-- {
		if q[i] < min {
			min = q[i]
		}
		q[i] = min
		psms[i].SetQValue(q[i])
	}

	passing := 0
	for _, v := range q {
		if v <= 0.01 {
			passing++
		}
	}
	return passing
}
