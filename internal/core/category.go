package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/filety/internal/frame"
)

// ReadFunc turns the raw bytes of an input into a frame.
type ReadFunc func(data []byte) (frame.Frame, error)

// CheckFunc inspects a frame and rejects it by returning an error,
// usually a *DomainError. Warnings go to the Notes.
type CheckFunc func(f frame.Frame, notes *Notes) error

// TransformFunc rewrites a frame.
type TransformFunc func(f frame.Frame, notes *Notes) (frame.Frame, error)

// Category describes one kind of input file: how to read it, which columns
// it must carry and with what types, its natural key and its hooks.
type Category struct {
	Name  string // unique identifier, e.g. "DMCO"
	Group string // source system, for listings
	Label string // display name

	Columns    []ColumnSpec
	NaturalKey []string

	// SplitBy lists the columns used to partition published output.
	// Empty means the table is published as a single file.
	SplitBy []string

	Read      ReadFunc
	PreCheck  CheckFunc     // optional
	Transform TransformFunc // optional
	PostCheck CheckFunc     // optional
}

// Required returns the required column names in declared order.
func (c Category) Required() []string {
	names := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		names[i] = col.Name
	}
	return names
}

// Validate checks that the category is internally consistent.
func (c Category) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if c.Read == nil {
		errs = append(errs, errors.New("reader is required"))
	}
	if len(c.Columns) == 0 {
		errs = append(errs, errors.New("at least one column is required"))
	}
	seen := make(map[string]bool, len(c.Columns))
	for _, col := range c.Columns {
		switch {
		case col.Name == "":
			errs = append(errs, errors.New("column with empty name"))
		case seen[col.Name]:
			errs = append(errs, fmt.Errorf("duplicate column %q", col.Name))
		case col.Type == nil:
			errs = append(errs, fmt.Errorf("column %q has no type", col.Name))
		}
		if d, ok := col.Type.(CalendarDate); ok {
			if err := d.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("column %q: %w", col.Name, err))
			}
		}
		seen[col.Name] = true
	}
	for _, k := range c.NaturalKey {
		if !seen[k] {
			errs = append(errs, fmt.Errorf("natural key column %q is not a required column", k))
		}
	}
	for _, s := range c.SplitBy {
		if !seen[s] {
			errs = append(errs, fmt.Errorf("split column %q is not a required column", s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("category %q: %w", c.Name, errors.Join(errs...))
	}
	return nil
}

// Notes collects warnings raised by category hooks. Warnings do not stop
// processing; they are logged and returned with the outcome.
type Notes struct {
	logger   *slog.Logger
	warnings []string
}

func newNotes(logger *slog.Logger) *Notes {
	return &Notes{logger: logger}
}

// Warnf records a warning.
func (n *Notes) Warnf(format string, args ...any) {
	if n == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	n.warnings = append(n.warnings, msg)
	if n.logger != nil {
		n.logger.Warn(msg)
	}
}

// Warnings returns the recorded warnings.
func (n *Notes) Warnings() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.warnings...)
}
