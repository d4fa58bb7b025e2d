package mass

// tolerance.go
//
// Signed ppm/Th tolerance windows, matching original_source's
// Tolerance::{Ppm,Th}::bounds exactly (negative lo/hi make an asymmetric
// window; the Open Question in spec §9 pins window checks as closed,
// bucketing as half-open — see index package).

// Kind discriminates a Tolerance's unit.
type Kind int

const (
	PPM Kind = iota
	Th
)

// Tolerance is a signed (lo, hi) pair expressed in either ppm or Th.
type Tolerance struct {
	Kind   Kind
	Lo, Hi float64
}

// NewPPM constructs a parts-per-million tolerance.
func NewPPM(lo, hi float64) Tolerance { return Tolerance{Kind: PPM, Lo: lo, Hi: hi} }

// NewTh constructs an absolute-Thomson tolerance.
func NewTh(lo, hi float64) Tolerance { return Tolerance{Kind: Th, Lo: lo, Hi: hi} }

// Bounds returns (center+lo·k, center+hi·k) where k = center·1e-6 for ppm,
// 1 for Th. The signs of Lo/Hi may be negative to express an asymmetric
// window around center.
func (t Tolerance) Bounds(center float64) (lo, hi float64) {
	switch t.Kind {
	case PPM:
		return ppmBounds(center, t.Lo, t.Hi)
	default:
		return thBounds(center, t.Lo, t.Hi)
	}
}

// ppm_bounds computes the (lo, hi) window in Da for a ppm tolerance.
func ppmBounds(center, loPPM, hiPPM float64) (lo, hi float64) {
	k := center * 1e-6
	return center + loPPM*k, center + hiPPM*k
}

// th_bounds computes the (lo, hi) window in Da for an absolute-Th tolerance.
func thBounds(center, loTh, hiTh float64) (lo, hi float64) {
	return center + loTh, center + hiTh
}

// PPMBounds is the exported form of ppm_bounds from spec §4.A.
func PPMBounds(center, loPPM, hiPPM float64) (lo, hi float64) {
	return ppmBounds(center, loPPM, hiPPM)
}

// THBounds is the exported form of th_bounds from spec §4.A.
func THBounds(center, loTh, hiTh float64) (lo, hi float64) {
	return thBounds(center, loTh, hiTh)
}
