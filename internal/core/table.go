package core

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/filety/internal/frame"
)

// Table is a named frame tagged with the category it belongs to.
// Tables are values: every pipeline stage produces a new one.
type Table struct {
	name     string
	category Category
	frame    frame.Frame
}

// NewTable wraps an in-memory frame.
func NewTable(name, category string, f frame.Frame) (Table, error) {
	c, err := Lookup(category)
	if err != nil {
		return Table{}, err
	}
	return Table{name: name, category: c, frame: f}, nil
}

// ReadTable reads raw bytes with the category's reader.
func ReadTable(name, category string, data []byte) (Table, error) {
	c, err := Lookup(category)
	if err != nil {
		return Table{}, err
	}
	f, err := c.Read(data)
	if err != nil {
		return Table{}, fmt.Errorf("read %q as %s: %w", name, c.Name, err)
	}
	return Table{name: name, category: c, frame: f}, nil
}

// EmptyTable returns a table of the category with its required columns and
// no rows.
func EmptyTable(category string) (Table, error) {
	c, err := Lookup(category)
	if err != nil {
		return Table{}, err
	}
	return Table{name: "empty-" + c.Name, category: c, frame: frame.Empty(c.Required()...)}, nil
}

// FromCSV reads a table previously written with CSV. Cells equal to the
// null token come back missing; every cell is text until processed again.
func FromCSV(name, category string, data []byte) (Table, error) {
	c, err := Lookup(category)
	if err != nil {
		return Table{}, err
	}
	f, err := ReadDelimitedBytes(data, DelimitedOptions{Null: frame.DefaultNull})
	if err != nil {
		return Table{}, fmt.Errorf("read %q: %w", name, err)
	}
	return Table{name: name, category: c, frame: f}, nil
}

// RestoreTable reads back an accumulated table saved with CSV and gives its
// typed columns their cell kinds again. Dates are read in frame.DateLayout,
// the layout CSV writes them in. Category hooks and the natural key check
// do not run: the accumulated table holds several extracts.
func RestoreTable(category string, data []byte, logger *slog.Logger) (Table, error) {
	t, err := FromCSV(category, category, data)
	if err != nil {
		return Table{}, err
	}
	f, err := SelectRequired(t.name, t.frame, t.category.Required())
	if err != nil {
		return Table{}, err
	}
	f, _, err = TypeColumns(f, storedSpecs(t.category.Columns), true, logger)
	if err != nil {
		return Table{}, fmt.Errorf("restore %q: %w", category, err)
	}
	return t.withFrame(f), nil
}

// storedSpecs returns specs with every date column expecting the canonical
// layout.
func storedSpecs(specs []ColumnSpec) []ColumnSpec {
	out := make([]ColumnSpec, len(specs))
	for i, s := range specs {
		if _, ok := s.Type.(CalendarDate); ok {
			s.Type = CalendarDate{Format: DefaultDateFormat}
		}
		out[i] = s
	}
	return out
}

// Name returns the table name, usually the input file name.
func (t Table) Name() string { return t.name }

// Category returns the table's category.
func (t Table) Category() Category { return t.category }

// Frame returns the table contents.
func (t Table) Frame() frame.Frame { return t.frame }

// Len returns the number of rows.
func (t Table) Len() int { return t.frame.Len() }

// Rename returns a copy of the table under another name.
func (t Table) Rename(name string) Table {
	t.name = name
	return t
}

func (t Table) withFrame(f frame.Frame) Table {
	t.frame = f
	return t
}

// WriteCSV writes the table with a header row, no index column and null
// in place of missing cells.
func (t Table) WriteCSV(w io.Writer, null string) error {
	return frame.WriteCSV(w, t.frame, null)
}

// CSV returns the table as CSV bytes using the NULL token.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf, frame.DefaultNull); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Combine stacks the rows of b under a. Both tables must belong to the same
// category and must not share any row; a shared row usually means the same
// extract was delivered twice.
func Combine(a, b Table) (Table, error) {
	if a.category.Name != b.category.Name {
		return Table{}, fmt.Errorf("combine %q (%s) with %q (%s): %w",
			a.name, a.category.Name, b.name, b.category.Name, ErrCategoryMismatch)
	}
	shared, err := frame.SharedRows(a.frame, b.frame)
	if err != nil {
		return Table{}, fmt.Errorf("combine %q with %q: %w", a.name, b.name, err)
	}
	if shared > 0 {
		return Table{}, &ValidationError{
			Message: fmt.Sprintf("tables %q and %q share %d rows; the same data is likely being loaded twice", a.name, b.name, shared),
		}
	}
	f, err := frame.Concat(a.frame, b.frame)
	if err != nil {
		return Table{}, fmt.Errorf("combine %q with %q: %w", a.name, b.name, err)
	}
	return Table{name: a.name + "+" + b.name, category: a.category, frame: f}, nil
}
