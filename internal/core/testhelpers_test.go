package core

import (
	"sync"
	"testing"

	"github.com/JonMunkholm/filety/internal/frame"
)

const (
	testCategory  = "TEST"
	otherCategory = "OTHER"
)

var registerOnce sync.Once

func readTestCSV(data []byte) (frame.Frame, error) {
	return ReadDelimitedBytes(data, DelimitedOptions{Null: frame.DefaultNull})
}

// registerTestCategories registers two small delimited categories. The
// registry is global, so registration happens once per test binary.
func registerTestCategories(t *testing.T) {
	t.Helper()
	registerOnce.Do(func() {
		Register(Category{
			Name:  testCategory,
			Group: "tests",
			Label: "Test extract",
			Columns: []ColumnSpec{
				{Name: "id", Type: BoundedText{MaxLength: 5}},
				{Name: "amount", Type: DecimalNumber{DecimalDigits: 2}},
				{Name: "day", Type: CalendarDate{}},
				{Name: "kind", Type: Categorical{Allowed: []string{"A", "B"}, Default: "A"}},
			},
			NaturalKey: []string{"id"},
			SplitBy:    []string{"kind"},
			Read:       readTestCSV,
			PreCheck: func(f frame.Frame, notes *Notes) error {
				days, _ := f.Select("day")
				if n := days.DistinctLen(); n > 1 {
					notes.Warnf("%d distinct days in one extract", n)
				}
				return nil
			},
			Transform: func(f frame.Frame, _ *Notes) (frame.Frame, error) {
				return f.Filter(func(r int) bool { return f.Cell(r, "kind").Str() != "B" }), nil
			},
			PostCheck: func(f frame.Frame, _ *Notes) error {
				if f.Len() == 0 {
					return Domainf("no rows left after filtering")
				}
				return nil
			},
		})
		Register(Category{
			Name:    otherCategory,
			Group:   "tests",
			Columns: []ColumnSpec{{Name: "id", Type: BoundedText{MaxLength: 5}}},
			Read:    readTestCSV,
		})
	})
}

func mustFrame(t *testing.T, names []string, rows ...[]string) frame.Frame {
	t.Helper()
	cells := make([][]frame.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]frame.Cell, len(row))
		for j, v := range row {
			if v == "" {
				cells[i][j] = frame.Null(frame.KindText)
			} else {
				cells[i][j] = frame.Text(v)
			}
		}
	}
	f, err := frame.FromRows(names, cells)
	if err != nil {
		t.Fatalf("build frame: %v", err)
	}
	return f
}
