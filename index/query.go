package index

// query.go
//
// The query planner (spec §4.D, §4.F): given a spectrum's precursor mass,
// restrict page_search to fragments whose parent peptide falls within the
// precursor window, expanded for plausible isotope mispicks.

import (
	"sort"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/mass"
	"github.com/tandemms/search/peptide"
)

// Hit is a fragment returned by PageSearch, paired with the peptide index
// and ion kind a caller needs to update its per-peptide accumulator.
type Hit struct {
	PeptideIx peptide.Ix
	Kind      fragment.Kind
	MZ        float64
}

// window is an inclusive [Lo, Hi] mass sub-window.
type window struct{ Lo, Hi float64 }

func (w window) contains(m float64) bool { return m >= w.Lo && m <= w.Hi }

// Query is bound to one spectrum's precursor mass and fragment tolerance.
type Query struct {
	db          *Database
	fragmentTol mass.Tolerance
	windows     []window // nil (and unused) when WideWindow is set
	wideWindow  bool
}

// QueryOptions bundles the per-search tolerance and isotope parameters from
// spec §6's configuration table.
type QueryOptions struct {
	PrecursorTol             mass.Tolerance
	FragmentTol              mass.Tolerance
	MinIsotopeErr, MaxIsotopeErr int
	WideWindow                bool
}

// Query computes the precursor mass window(s) for precursorMass (expanded
// by every integer isotope offset in [MinIsotopeErr, MaxIsotopeErr]) and
// returns an object whose PageSearch restricts fragment hits to peptides
// within that window — unless WideWindow disables the precursor filter
// entirely (DIA mode, spec §4.D).
func (db *Database) Query(precursorMass float64, opt QueryOptions) *Query {
	q := &Query{db: db, fragmentTol: opt.FragmentTol, wideWindow: opt.WideWindow}
	if opt.WideWindow {
		return q
	}
	for offset := opt.MinIsotopeErr; offset <= opt.MaxIsotopeErr; offset++ {
		center := precursorMass - float64(offset)*isotopeSpacing
		lo, hi := opt.PrecursorTol.Bounds(center)
		q.windows = append(q.windows, window{Lo: lo, Hi: hi})
	}
	return q
}

// inPrecursorWindow reports whether m falls in any of the query's
// precursor mass sub-windows (or is unconditionally accepted in wide-window
// mode).
func (q *Query) inPrecursorWindow(m float64) bool {
	if q.wideWindow {
		return true
	}
	for _, w := range q.windows {
		if w.contains(m) {
			return true
		}
	}
	return false
}

// PageSearch returns every fragment within fragmentTol of fragmentMZ whose
// parent peptide's monoisotopic mass lies in the query's precursor window.
// Window bounds are inclusive on both ends (spec §9's closed-window tie
// break); bucket membership itself is half-open ([lower, upper)), handled
// entirely within Build/bucketOf.
func (q *Query) PageSearch(fragmentMZ float64) []Hit {
	db := q.db
	if len(db.offsets) <= 1 {
		return nil
	}
	mzLo, mzHi := q.fragmentTol.Bounds(fragmentMZ)

	// First bucket whose upper bound >= mzLo.
	start := sort.Search(len(db.bucketBounds)-1, func(b int) bool {
		return db.bucketBounds[b+1] >= mzLo
	})

	var hits []Hit
	for b := start; b < len(db.bucketBounds)-1 && db.bucketBounds[b] <= mzHi; b++ {
		for i := db.offsets[b]; i < db.offsets[b+1]; i++ {
			mz := db.mz[i]
			if mz < mzLo || mz > mzHi {
				continue
			}
			ix := db.peptideIx[i]
			if !q.inPrecursorWindow(db.PeptideMass(ix)) {
				continue
			}
			hits = append(hits, Hit{PeptideIx: ix, Kind: db.kind[i], MZ: mz})
		}
	}
	return hits
}
