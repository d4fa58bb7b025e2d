// Package peptide turns protein records into labelled peptide sequences:
// enzymatic digestion, target/decoy labelling, and the opaque PeptideIx a
// built database hands back to every other package.
package peptide

import (
	"github.com/soniakeys/multiset"
	"github.com/tandemms/search/mass"
)

// Label is the target/decoy sign carried by every peptide.
type Label int8

const (
	Decoy  Label = -1
	Target Label = 1
)

// Protein is the minimal shape the core needs from a parsed FASTA record.
// FASTA parsing itself is out of scope (spec §1); the caller supplies this.
type Protein struct {
	Accession string
	Sequence  string
	IsDecoy   bool
}

// Ix is the opaque, stable index of a peptide within a built database. A Ix
// is only valid for the lifetime of the database that issued it.
type Ix int

// Peptide is an ordered sequence of residues plus the monoisotopic mass and
// provenance spec §3 requires.
type Peptide struct {
	Residues []mass.Residue
	MonoMass float64
	Protein  string
	Label    Label
	Sequence string // residues rendered back to a plain string, for output
}

// Composition is a multiset of residue symbols, incrementally updated while
// the digester slides a cleavage window across a protein so the mass of a
// longer missed-cleavage variant is accumulated onto the shorter one instead
// of resummed from scratch. Grounded on github.com/soniakeys/multiset's use
// in aaint.go for combinatorial mass accounting.
type Composition multiset.Multiset

// NewComposition builds a Composition (and its monoisotopic mass, seeded
// with the water group) from a residue string.
func NewComposition(seq string) (Composition, float64) {
	c := Composition{}
	total := mass.H2O
	for i := 0; i < len(seq); i++ {
		total += c.add(seq[i])
	}
	return c, total
}

// add inserts residue aa into c and returns its monoisotopic mass
// contribution, the unit of incremental bookkeeping Digest slides forward.
func (c Composition) add(aa byte) float64 {
	c[aa]++
	return mass.Monoisotopic(aa)
}

// Mass sums a residue string plus the water group, per spec §3's
// Peptide.MonoMass = Σresidues + H2O.
func Mass(seq string) float64 {
	m := mass.H2O
	for i := 0; i < len(seq); i++ {
		m += mass.Monoisotopic(seq[i])
	}
	return m
}

// New builds a Peptide from a plain residue string, a protein accession,
// and a label. Any residue outside the 20-letter alphabet panics via
// mass.Monoisotopic (spec §4.A tie-break: a programming error).
func New(seq, protein string, label Label) Peptide {
	residues := make([]mass.Residue, len(seq))
	m := mass.H2O
	for i := 0; i < len(seq); i++ {
		residues[i] = mass.Residue{AA: seq[i]}
		m += mass.Monoisotopic(seq[i])
	}
	return Peptide{
		Residues: residues,
		MonoMass: m,
		Protein:  protein,
		Label:    label,
		Sequence: seq,
	}
}

// newWithMass builds a Peptide like New, but takes a precomputed
// monoisotopic mass instead of resumming it. Digest uses this with a
// Composition accumulated incrementally across missed-cleavage sites.
func newWithMass(seq, protein string, label Label, monoMass float64) Peptide {
	residues := make([]mass.Residue, len(seq))
	for i := 0; i < len(seq); i++ {
		residues[i] = mass.Residue{AA: seq[i]}
	}
	return Peptide{
		Residues: residues,
		MonoMass: monoMass,
		Protein:  protein,
		Label:    label,
		Sequence: seq,
	}
}

// Len returns the residue count.
func (p Peptide) Len() int { return len(p.Residues) }
