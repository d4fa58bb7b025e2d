// Package mass defines the monoisotopic mass primitives shared by every
// other package in the search kernel: the 20-letter amino acid mass table,
// the water/proton/ammonia constants, and the ppm/Th tolerance window used
// throughout precursor and fragment matching.
package mass

// mass.go
//
// Constants and the amino acid mass table. Mirrors original_source's
// src/mass.rs constant-for-constant, widened from float32 to float64.

import (
	"strconv"

	"github.com/tandemms/search/internal/errs"
)

// Physical constants, in daltons.
const (
	H2O    = 18.010565
	Proton = 1.0072764
	NH3    = 17.026548

	// Electron is the electron mass, used only in the b-ion formula (spec
	// §4.C literally subtracts it: the proton term alone already carries
	// the +1 charge, so b-ions fold in the electron separately rather
	// than reusing the neutral-hydrogen mass).
	Electron = 0.00054858
)

// ValidAA lists the 20 proteinogenic amino acids in the order the original
// source enumerates them.
var ValidAA = [20]byte{
	'A', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'K', 'L',
	'M', 'N', 'P', 'Q', 'R', 'S', 'T', 'V', 'W', 'Y',
}

// monoisotopicTable holds residue masses indexed by aa-'A'. Table length 25
// covers 'A' through 'Y' and leaves holes for B, J, O, U, X ('Z' falls past
// the end), matching the teacher's AA20MonoisotopicMassTable layout in
// aamass.go.
var monoisotopicTable [25]float64

func init() {
	monoisotopicTable['A'-'A'] = 71.037_12
	monoisotopicTable['R'-'A'] = 156.101_1
	monoisotopicTable['N'-'A'] = 114.042_93
	monoisotopicTable['D'-'A'] = 115.026_94
	monoisotopicTable['C'-'A'] = 103.009_186
	monoisotopicTable['E'-'A'] = 129.042_59
	monoisotopicTable['Q'-'A'] = 128.058_58
	monoisotopicTable['G'-'A'] = 57.021_465
	monoisotopicTable['H'-'A'] = 137.058_91
	monoisotopicTable['I'-'A'] = 113.084_06
	monoisotopicTable['L'-'A'] = 113.084_06
	monoisotopicTable['K'-'A'] = 128.094_96
	monoisotopicTable['M'-'A'] = 131.040_48
	monoisotopicTable['F'-'A'] = 147.068_42
	monoisotopicTable['P'-'A'] = 97.052_765
	monoisotopicTable['S'-'A'] = 87.032_03
	monoisotopicTable['T'-'A'] = 101.047_676
	monoisotopicTable['W'-'A'] = 186.079_32
	monoisotopicTable['Y'-'A'] = 163.063_32
	monoisotopicTable['V'-'A'] = 99.068_41
}

// validTable indexes ValidAA for a single panic check without a loop.
var validTable [25]bool

func init() {
	for _, aa := range ValidAA {
		validTable[aa-'A'] = true
	}
}

// IsValid reports whether aa is one of the 20 standard amino acids. Unlike
// Monoisotopic, it never panics — callers that must quarantine a malformed
// protein or peptide sequence before it reaches Monoisotopic use this to
// check first (spec §7: MalformedInput is surfaced and the offending record
// dropped, not the whole run).
func IsValid(aa byte) bool {
	return aa >= 'A' && aa <= 'Y' && validTable[aa-'A']
}

// Monoisotopic returns the residue mass of a standard amino acid.
//
// A lookup for any character outside the 20-letter alphabet is a
// programming error, per spec §4.A's tie-break, and panics rather than
// returning a zero mass that would silently corrupt downstream sums.
func Monoisotopic(aa byte) float64 {
	if !IsValid(aa) {
		panic(errs.New(errs.MalformedInput, "mass: invalid amino acid "+string(rune(aa))))
	}
	return monoisotopicTable[aa-'A']
}

// Residue is either a plain amino acid or one carrying an additive mass
// modification (e.g. carbamidomethyl-cysteine, oxidized methionine).
type Residue struct {
	AA  byte
	Mod float64 // additive delta mass in Da; 0 for an unmodified residue
}

// Monoisotopic returns base + modification.
func (r Residue) Monoisotopic() float64 {
	return Monoisotopic(r.AA) + r.Mod
}

func (r Residue) String() string {
	if r.Mod == 0 {
		return string(r.AA)
	}
	return string(r.AA) + "[" + strconv.FormatFloat(r.Mod, 'f', 4, 64) + "]"
}
