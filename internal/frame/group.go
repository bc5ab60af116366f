package frame

import (
	"fmt"
)

// Group is one distinct tuple of key values and the rows that carry it.
type Group struct {
	Key  []Cell
	Rows []int
}

// Count returns the number of rows in the group.
func (g Group) Count() int { return len(g.Rows) }

// GroupBy partitions rows by the values of the named columns. Groups are
// returned in order of first appearance.
func (f Frame) GroupBy(names ...string) ([]Group, error) {
	keys, err := f.Select(names...)
	if err != nil {
		return nil, err
	}
	buckets := make(map[uint64][]int)
	var groups []Group
	for r := 0; r < f.rows; r++ {
		key := keys.Row(r)
		h := fingerprint(key)
		found := false
		for _, gi := range buckets[h] {
			if rowsEqual(groups[gi].Key, key) {
				groups[gi].Rows = append(groups[gi].Rows, r)
				found = true
				break
			}
		}
		if !found {
			buckets[h] = append(buckets[h], len(groups))
			groups = append(groups, Group{Key: key, Rows: []int{r}})
		}
	}
	return groups, nil
}

// Split is a subset of rows sharing the values of the split columns.
// Path holds one "column:value" element per split column.
type Split struct {
	Path  []string
	Frame Frame
}

// SplitBy partitions the frame by the values of the named columns, one
// level per column. Missing values form their own partition rendered as
// the null token.
func (f Frame) SplitBy(null string, names ...string) ([]Split, error) {
	for _, n := range names {
		if !f.Has(n) {
			return nil, fmt.Errorf("split by %q: %w", n, ErrNoColumn)
		}
	}
	groups, err := f.GroupBy(names...)
	if err != nil {
		return nil, err
	}
	splits := make([]Split, 0, len(groups))
	for _, g := range groups {
		path := make([]string, len(names))
		for i, n := range names {
			v := g.Key[i].String()
			if g.Key[i].IsNull() {
				v = null
			}
			path[i] = n + ":" + v
		}
		splits = append(splits, Split{Path: path, Frame: f.take(g.Rows)})
	}
	return splits, nil
}

// DropSummaryRow removes the last row when it has at most one present cell,
// the shape of a trailing totals line in exported reports.
func (f Frame) DropSummaryRow() Frame {
	if f.rows == 0 {
		return f
	}
	present := 0
	for _, c := range f.Row(f.rows - 1) {
		if !c.IsNull() {
			present++
		}
	}
	if present <= 1 {
		return f.Slice(0, f.rows-1)
	}
	return f
}
