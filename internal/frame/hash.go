package frame

import (
	"github.com/cespare/xxhash/v2"
)

// rowSet indexes rows by an xxhash fingerprint. Buckets keep the rows so
// colliding fingerprints still compare cell by cell.
type rowSet struct {
	buckets map[uint64][][]Cell
	n       int
}

func newRowSet() *rowSet {
	return &rowSet{buckets: make(map[uint64][][]Cell)}
}

// add inserts row and reports whether it was not already present.
func (s *rowSet) add(row []Cell) bool {
	if s.contains(row) {
		return false
	}
	h := fingerprint(row)
	s.buckets[h] = append(s.buckets[h], row)
	s.n++
	return true
}

func (s *rowSet) contains(row []Cell) bool {
	for _, other := range s.buckets[fingerprint(row)] {
		if rowsEqual(row, other) {
			return true
		}
	}
	return false
}

// fingerprint hashes the canonical form of each cell; Equal cells hash alike.
func fingerprint(row []Cell) uint64 {
	d := xxhash.New()
	for _, c := range row {
		_, _ = d.WriteString(c.canonical())
		_, _ = d.Write([]byte{0x1f})
	}
	return d.Sum64()
}

func rowsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Distinct returns the frame with repeated rows removed, keeping the first
// occurrence of each.
func (f Frame) Distinct() Frame {
	seen := newRowSet()
	return f.Filter(func(r int) bool {
		return seen.add(f.Row(r))
	})
}

// DistinctLen returns the number of distinct rows.
func (f Frame) DistinctLen() int {
	seen := newRowSet()
	for r := 0; r < f.rows; r++ {
		seen.add(f.Row(r))
	}
	return seen.n
}

// SharedRows returns the number of distinct rows of a that also occur in b.
// Columns of b are matched to a by name.
func SharedRows(a, b Frame) (int, error) {
	aligned, err := b.Select(a.names...)
	if err != nil {
		return 0, err
	}
	inB := newRowSet()
	for r := 0; r < aligned.rows; r++ {
		inB.add(aligned.Row(r))
	}
	shared := newRowSet()
	for r := 0; r < a.rows; r++ {
		row := a.Row(r)
		if inB.contains(row) {
			shared.add(row)
		}
	}
	return shared.n, nil
}
