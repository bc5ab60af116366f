package frame

import (
	"errors"
	"fmt"
)

// ErrNoColumn is returned when an operation names a column the frame lacks.
var ErrNoColumn = errors.New("no such column")

// Frame is a rectangular table of cells with ordered, uniquely named columns.
//
// Frames are values. Every operation returns a new Frame and leaves the
// receiver untouched, so a stage of the processing pipeline can hand its
// input to the next one without copying defensively.
type Frame struct {
	names []string
	index map[string]int
	cols  [][]Cell
	rows  int
}

// New builds a frame from column names and column-major cells.
// All columns must have the same length and names must be unique.
func New(names []string, cols [][]Cell) (Frame, error) {
	if len(names) != len(cols) {
		return Frame{}, fmt.Errorf("frame: %d names for %d columns", len(names), len(cols))
	}
	f := Frame{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
		cols:  make([][]Cell, len(cols)),
	}
	for i, name := range names {
		if _, dup := f.index[name]; dup {
			return Frame{}, fmt.Errorf("frame: duplicate column %q", name)
		}
		f.index[name] = i
		if i == 0 {
			f.rows = len(cols[i])
		} else if len(cols[i]) != f.rows {
			return Frame{}, fmt.Errorf("frame: column %q has %d rows, want %d", name, len(cols[i]), f.rows)
		}
		f.cols[i] = append([]Cell(nil), cols[i]...)
	}
	return f, nil
}

// FromRows builds a frame from row-major cells.
func FromRows(names []string, rows [][]Cell) (Frame, error) {
	cols := make([][]Cell, len(names))
	for i := range cols {
		cols[i] = make([]Cell, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return Frame{}, fmt.Errorf("frame: row %d has %d cells, want %d", r, len(row), len(names))
		}
		for c, cell := range row {
			cols[c][r] = cell
		}
	}
	return New(names, cols)
}

// Empty returns a frame with the given columns and no rows.
func Empty(names ...string) Frame {
	f, err := New(names, make([][]Cell, len(names)))
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of rows.
func (f Frame) Len() int { return f.rows }

// Width returns the number of columns.
func (f Frame) Width() int { return len(f.names) }

// Columns returns the column names in order.
func (f Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Has reports whether the frame has a column with the given name.
func (f Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Missing returns the names in want that the frame does not have,
// preserving the order of want.
func (f Frame) Missing(want []string) []string {
	var missing []string
	for _, name := range want {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Column returns a copy of the named column.
func (f Frame) Column(name string) ([]Cell, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return append([]Cell(nil), f.cols[i]...), true
}

// Cell returns the cell at row r of the named column. It returns a missing
// text cell when either coordinate is out of range.
func (f Frame) Cell(r int, name string) Cell {
	i, ok := f.index[name]
	if !ok || r < 0 || r >= f.rows {
		return Cell{}
	}
	return f.cols[i][r]
}

// Row returns the cells of row r in column order.
func (f Frame) Row(r int) []Cell {
	row := make([]Cell, len(f.cols))
	for c := range f.cols {
		row[c] = f.cols[c][r]
	}
	return row
}

// Rows returns all rows in order.
func (f Frame) Rows() [][]Cell {
	rows := make([][]Cell, f.rows)
	for r := range rows {
		rows[r] = f.Row(r)
	}
	return rows
}

// Select projects the frame onto the named columns in the given order.
func (f Frame) Select(names ...string) (Frame, error) {
	cols := make([][]Cell, len(names))
	for i, name := range names {
		j, ok := f.index[name]
		if !ok {
			return Frame{}, fmt.Errorf("select %q: %w", name, ErrNoColumn)
		}
		cols[i] = f.cols[j]
	}
	return New(names, cols)
}

// Drop removes the named columns. Unknown names are ignored.
func (f Frame) Drop(names ...string) Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var keep []string
	for _, n := range f.names {
		if !drop[n] {
			keep = append(keep, n)
		}
	}
	out, _ := f.Select(keep...)
	return out
}

// WithColumn returns a frame where the named column holds cells. The column
// is replaced in place if it exists and appended otherwise.
func (f Frame) WithColumn(name string, cells []Cell) (Frame, error) {
	if len(f.names) > 0 && len(cells) != f.rows {
		return Frame{}, fmt.Errorf("frame: column %q has %d rows, want %d", name, len(cells), f.rows)
	}
	names := f.Columns()
	cols := append([][]Cell(nil), f.cols...)
	if i, ok := f.index[name]; ok {
		cols[i] = cells
	} else {
		names = append(names, name)
		cols = append(cols, cells)
	}
	return New(names, cols)
}

// Map applies fn to every cell of the named column.
func (f Frame) Map(name string, fn func(Cell) Cell) (Frame, error) {
	i, ok := f.index[name]
	if !ok {
		return Frame{}, fmt.Errorf("map %q: %w", name, ErrNoColumn)
	}
	cells := make([]Cell, f.rows)
	for r, c := range f.cols[i] {
		cells[r] = fn(c)
	}
	return f.WithColumn(name, cells)
}

// Filter keeps the rows for which keep returns true, preserving order.
func (f Frame) Filter(keep func(r int) bool) Frame {
	var idx []int
	for r := 0; r < f.rows; r++ {
		if keep(r) {
			idx = append(idx, r)
		}
	}
	return f.take(idx)
}

// Slice returns rows [lo, hi).
func (f Frame) Slice(lo, hi int) Frame {
	lo = max(0, min(lo, f.rows))
	hi = max(lo, min(hi, f.rows))
	idx := make([]int, 0, hi-lo)
	for r := lo; r < hi; r++ {
		idx = append(idx, r)
	}
	return f.take(idx)
}

// Rename returns a frame whose columns are renamed by fn.
func (f Frame) Rename(fn func(string) string) (Frame, error) {
	names := make([]string, len(f.names))
	for i, n := range f.names {
		names[i] = fn(n)
	}
	return New(names, f.cols)
}

func (f Frame) take(idx []int) Frame {
	cols := make([][]Cell, len(f.cols))
	for c, col := range f.cols {
		cells := make([]Cell, len(idx))
		for i, r := range idx {
			cells[i] = col[r]
		}
		cols[c] = cells
	}
	out, _ := New(f.names, cols)
	return out
}

// Concat stacks the rows of b under a. Both frames must have the same set of
// columns; b is aligned to a's column order.
func Concat(a, b Frame) (Frame, error) {
	if a.Width() != b.Width() {
		return Frame{}, fmt.Errorf("concat: %d columns vs %d", a.Width(), b.Width())
	}
	cols := make([][]Cell, len(a.names))
	for i, name := range a.names {
		j, ok := b.index[name]
		if !ok {
			return Frame{}, fmt.Errorf("concat %q: %w", name, ErrNoColumn)
		}
		cells := make([]Cell, 0, a.rows+b.rows)
		cells = append(cells, a.cols[i]...)
		cells = append(cells, b.cols[j]...)
		cols[i] = cells
	}
	return New(a.names, cols)
}
