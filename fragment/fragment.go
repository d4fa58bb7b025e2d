// Package fragment generates the theoretical b- and y-ion series for a
// peptide, the unit of work the indexed database sorts and buckets.
package fragment

import (
	"github.com/tandemms/search/mass"
	"github.com/tandemms/search/peptide"
)

// Kind discriminates a b-ion from a y-ion.
type Kind int8

const (
	B Kind = iota
	Y
)

func (k Kind) String() string {
	if k == B {
		return "b"
	}
	return "y"
}

// Theoretical is the (peptide_index, kind, mz) tuple spec §3 defines.
type Theoretical struct {
	PeptideIx peptide.Ix
	Kind      Kind
	MZ        float64
}

// Generate produces 2*(L-1) charge-+1 theoretical fragments for a peptide
// of length L: b1..b(L-1) prefix ions and y1..y(L-1) suffix ions, per
// spec §4.C. A peptide of length < 2 has no internal cleavage site and
// yields no fragments.
func Generate(ix peptide.Ix, p peptide.Peptide) []Theoretical {
	n := p.Len()
	if n < 2 {
		return nil
	}
	out := make([]Theoretical, 0, 2*(n-1))

	// b-ions: prefix masses, charge +1. Per spec §4.C the electron mass is
	// subtracted explicitly rather than folded into Proton.
	running := 0.0
	for i := 0; i < n-1; i++ {
		running += p.Residues[i].Monoisotopic()
		out = append(out, Theoretical{
			PeptideIx: ix,
			Kind:      B,
			MZ:        running - mass.Electron + mass.Proton,
		})
	}

	// y-ions: suffix masses, charge +1.
	running = mass.H2O
	for i := 0; i < n-1; i++ {
		running += p.Residues[n-1-i].Monoisotopic()
		out = append(out, Theoretical{
			PeptideIx: ix,
			Kind:      Y,
			MZ:        running + mass.Proton,
		})
	}
	return out
}
