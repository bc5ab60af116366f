package core

// processor.go runs a table through its category's pipeline:
//
//	Selected -> Typed -> PreChecked -> Transformed -> KeyChecked -> PostChecked
//
// Any stage may fail, leaving the outcome in StateFailed with FailedAt set
// to the stage that did not complete. Validation and domain errors from the
// typing stage onwards are re-issued with the table name.

import (
	"log/slog"

	"github.com/JonMunkholm/filety/internal/frame"
)

// State is a pipeline stage.
type State int

const (
	StateNew State = iota
	StateSelected
	StateTyped
	StatePreChecked
	StateTransformed
	StateKeyChecked
	StatePostChecked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateSelected:
		return "selected"
	case StateTyped:
		return "typed"
	case StatePreChecked:
		return "pre-checked"
	case StateTransformed:
		return "transformed"
	case StateKeyChecked:
		return "key-checked"
	case StatePostChecked:
		return "post-checked"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a Processor.
type Options struct {
	// Remediate enables the remediation pass when typing finds values that
	// do not fit their column type.
	Remediate bool

	Logger *slog.Logger
}

// DefaultOptions returns options with remediation enabled.
func DefaultOptions() Options {
	return Options{Remediate: true}
}

// Outcome is the result of processing one table.
type Outcome struct {
	Table    Table
	State    State
	FailedAt State // stage that failed, when State is StateFailed
	Typing   TypingReport
	Warnings []string
}

// Processor runs tables through their category pipeline.
type Processor struct {
	opts   Options
	logger *slog.Logger
}

// NewProcessor creates a processor.
func NewProcessor(opts Options) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{opts: opts, logger: logger}
}

// Process runs every stage on t. The returned outcome describes how far
// processing got even when err is non-nil.
func (p *Processor) Process(t Table) (Outcome, error) {
	cat := t.Category()
	logger := p.logger.With("table", t.Name(), "category", cat.Name)
	notes := newNotes(logger)
	out := Outcome{Table: t, State: StateNew}

	fail := func(at State, err error) (Outcome, error) {
		out.State = StateFailed
		out.FailedAt = at
		out.Warnings = notes.Warnings()
		if at != StateSelected {
			err = withTable(err, t.Name())
		}
		logger.Debug("table processing failed", "stage", at, "error", err)
		return out, err
	}
	advance := func(s State, f frame.Frame) {
		out.Table = out.Table.withFrame(f)
		out.State = s
		logger.Debug("table stage complete", "stage", s, "rows", f.Len())
	}

	f, err := SelectRequired(t.Name(), t.Frame(), cat.Required())
	if err != nil {
		return fail(StateSelected, err)
	}
	advance(StateSelected, f)

	f, out.Typing, err = TypeColumns(f, cat.Columns, p.opts.Remediate, logger)
	if err != nil {
		return fail(StateTyped, err)
	}
	advance(StateTyped, f)

	if cat.PreCheck != nil {
		if err := cat.PreCheck(f, notes); err != nil {
			return fail(StatePreChecked, err)
		}
	}
	advance(StatePreChecked, f)

	if cat.Transform != nil {
		if f, err = cat.Transform(f, notes); err != nil {
			return fail(StateTransformed, err)
		}
	}
	advance(StateTransformed, f)

	if err := CheckNaturalKey(f, cat.NaturalKey); err != nil {
		return fail(StateKeyChecked, err)
	}
	advance(StateKeyChecked, f)

	if cat.PostCheck != nil {
		if err := cat.PostCheck(f, notes); err != nil {
			return fail(StatePostChecked, err)
		}
	}
	advance(StatePostChecked, f)

	out.Warnings = notes.Warnings()
	return out, nil
}
