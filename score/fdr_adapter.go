package score

import (
	"github.com/tandemms/search/fdr"
	"github.com/tandemms/search/peptide"
)

// Ranked adapts a *PSM to the fdr.Scored interface. It is a distinct type
// (rather than methods on PSM itself) because PSM already exposes
// Hyperscore as a plain field for serialisation; Ranked's own Hyperscore
// method shadows that promoted field for the one caller that needs it as a
// method value.
type Ranked struct {
	*PSM
}

func (r Ranked) Hyperscore() float64 { return r.PSM.Hyperscore }
func (r Ranked) IsTarget() bool      { return r.PSM.Label == peptide.Target }
func (r Ranked) SetQValue(q float64) { r.PSM.QValue = q }

// RankAll submits psms to fdr.AssignQValues, returning the list re-sorted
// by descending hyperscore (with QValue now populated on each) and the
// count of PSMs passing the 1% global FDR threshold.
func RankAll(psms []*PSM) ([]*PSM, int) {
	scored := make([]fdr.Scored, len(psms))
	for i, p := range psms {
		scored[i] = Ranked{p}
	}
	passing := fdr.AssignQValues(scored)
	sorted := make([]*PSM, len(scored))
	for i, s := range scored {
		sorted[i] = s.(Ranked).PSM
	}
	return sorted, passing
}
