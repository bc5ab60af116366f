package cobol

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/filety/internal/frame"
)

// Column is a named field within a record.
type Column struct {
	Name  string
	Field Field
}

// Layout is an ordered list of fields making up one fixed-width record.
type Layout struct {
	cols    []Column
	offsets []int
	width   int
}

// NewLayout validates the columns and computes field offsets.
func NewLayout(cols ...Column) (*Layout, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("layout: no columns: %w", ErrInvalidField)
	}
	l := &Layout{
		cols:    append([]Column(nil), cols...),
		offsets: make([]int, len(cols)),
	}
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("layout: column %d has no name: %w", i, ErrInvalidField)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("layout: duplicate column %q: %w", c.Name, ErrInvalidField)
		}
		if c.Field.Width() <= 0 {
			return nil, fmt.Errorf("layout: column %q is not declared: %w", c.Name, ErrInvalidField)
		}
		seen[c.Name] = true
		l.offsets[i] = l.width
		l.width += c.Field.Width()
	}
	return l, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout(cols ...Column) *Layout {
	l, err := NewLayout(cols...)
	if err != nil {
		panic(err)
	}
	return l
}

// RowWidth returns the byte size of one record.
func (l *Layout) RowWidth() int { return l.width }

// Columns returns the declared columns in order.
func (l *Layout) Columns() []Column {
	return append([]Column(nil), l.cols...)
}

// Names returns the column names in order.
func (l *Layout) Names() []string {
	names := make([]string, len(l.cols))
	for i, c := range l.cols {
		names[i] = c.Name
	}
	return names
}

// RowCount returns the number of records in data, or a FormatError when the
// length is not a whole number of records.
func (l *Layout) RowCount(data []byte) (int, error) {
	if len(data)%l.width != 0 {
		return 0, &FormatError{
			Got:    len(data),
			Want:   l.width,
			Reason: "input is not a whole number of records",
		}
	}
	return len(data) / l.width, nil
}

// Decode slices data into records and decodes every field. Columns named in
// drop are left out of the result without being decoded.
func (l *Layout) Decode(data []byte, drop ...string) (frame.Frame, error) {
	n, err := l.RowCount(data)
	if err != nil {
		return frame.Frame{}, err
	}
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}

	var (
		names []string
		cols  [][]frame.Cell
		idx   []int
	)
	for i, c := range l.cols {
		if skip[c.Name] {
			continue
		}
		names = append(names, c.Name)
		cols = append(cols, make([]frame.Cell, n))
		idx = append(idx, i)
	}

	for r := 0; r < n; r++ {
		row := data[r*l.width : (r+1)*l.width]
		for j, i := range idx {
			c := l.cols[i]
			start := l.offsets[i]
			cell, err := c.Field.Decode(row[start : start+c.Field.Width()])
			if err != nil {
				var fe *FormatError
				if errors.As(err, &fe) {
					fe.Field = c.Name
					fe.Row = r + 1
				}
				return frame.Frame{}, err
			}
			cols[j][r] = cell
		}
	}
	return frame.New(names, cols)
}
