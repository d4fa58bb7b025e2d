// Package index builds the fragment-m/z-indexed database that is the core
// of the search kernel: a sorted, bucketed table of theoretical fragments
// plus a per-peptide mass side index, queried by precursor and fragment
// tolerance windows (spec §4.D).
package index

import (
	"sort"

	"github.com/tandemms/search/fragment"
	"github.com/tandemms/search/internal/errs"
	"github.com/tandemms/search/peptide"
)

// isotopeSpacing is the mass difference between successive isotope peaks.
const isotopeSpacing = 1.00335

// Database is the frozen, sorted-and-bucketed fragment table. Built once,
// shared read-only thereafter (spec §5).
//
// Fragments are stored struct-of-arrays for cache-efficient linear scans
// within a bucket, per spec §9's fragment table layout note.
type Database struct {
	peptideIx []peptide.Ix
	kind      []fragment.Kind
	mz        []float64

	// peptideMass[i] is the monoisotopic mass of peptide Ix(i). The
	// peptide table is frozen once Build returns.
	peptideMass []float64

	bucketSize   float64
	bucketBounds []float64 // lower mz bound of bucket i; monotonically non-decreasing
	offsets      []int     // offsets[i]..offsets[i+1] is the fragment range of bucket i
}

// Config bundles the build-time tunables that are fatal if misconfigured.
type Config struct {
	BucketSize float64 // Da; a good default touches 1-2 buckets per fragment window
}

// Build sorts fragments by mz, partitions them into fixed-stride buckets of
// width cfg.BucketSize, and freezes peptideMass as the per-peptide side
// index. peptideMass must be indexable by every fragment.PeptideIx present
// in fragments.
func Build(fragments []fragment.Theoretical, peptideMass []float64, cfg Config) (*Database, error) {
	if cfg.BucketSize <= 0 {
		return nil, errs.New(errs.ConfigurationError, "index: bucket_size must be > 0")
	}

	sorted := make([]fragment.Theoretical, len(fragments))
	copy(sorted, fragments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MZ < sorted[j].MZ })

	db := &Database{
		peptideIx:   make([]peptide.Ix, len(sorted)),
		kind:        make([]fragment.Kind, len(sorted)),
		mz:          make([]float64, len(sorted)),
		peptideMass: peptideMass,
		bucketSize:  cfg.BucketSize,
	}
	for i, f := range sorted {
		db.peptideIx[i] = f.PeptideIx
		db.kind[i] = f.Kind
		db.mz[i] = f.MZ
	}

	if len(sorted) == 0 {
		db.bucketBounds = []float64{0}
		db.offsets = []int{0}
		return db, nil
	}

	lowest := sorted[0].MZ
	highest := sorted[len(sorted)-1].MZ
	nBuckets := int((highest-lowest)/cfg.BucketSize) + 1

	bounds := make([]float64, 0, nBuckets+1)
	offsets := make([]int, 0, nBuckets+1)
	pos := 0
	for b := 0; b <= nBuckets; b++ {
		lower := lowest + float64(b)*cfg.BucketSize
		bounds = append(bounds, lower)
		for pos < len(sorted) && sorted[pos].MZ < lower {
			pos++
		}
		offsets = append(offsets, pos)
	}
	db.bucketBounds = bounds
	db.offsets = offsets
	return db, nil
}

// NumFragments returns the size of the frozen fragment table.
func (db *Database) NumFragments() int { return len(db.mz) }

// PeptideMass returns the monoisotopic mass of the peptide identified by ix.
// ix must have been issued by this database; any other value is a
// programming error (spec §7 IndexOutOfRange).
func (db *Database) PeptideMass(ix peptide.Ix) float64 {
	if int(ix) < 0 || int(ix) >= len(db.peptideMass) {
		panic(errs.New(errs.IndexOutOfRange, "index: PeptideIx not issued by this database"))
	}
	return db.peptideMass[ix]
}

// bucketOf returns the index of the bucket the fragment at sorted position i
// belongs to, via the same boundary scan Build used. Exposed only for
// invariant tests.
func (db *Database) bucketOf(i int) int {
	b := sort.Search(len(db.offsets)-1, func(b int) bool { return db.offsets[b+1] > i })
	return b
}
