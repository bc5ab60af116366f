package frame

// cell.go defines the Cell value stored in a Frame.
//
// A cell is one of text, integer, decimal or calendar date. A missing cell
// still carries the kind it stands in for, so a numeric column full of gaps
// stays numeric and renders differently from an empty text column when a
// consumer cares (the PostgreSQL loader does).

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the value type held by a Cell.
type Kind uint8

const (
	KindText Kind = iota
	KindInt
	KindDecimal
	KindDate
)

// DateLayout is the canonical rendering of a date cell.
const DateLayout = "2006-01-02"

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Cell is a single immutable value. The zero Cell is a missing text value.
type Cell struct {
	kind  Kind
	valid bool
	text  string
	num   int64
	dec   decimal.Decimal
	date  time.Time
}

// Text returns a present text cell. The empty string is a present value;
// use Null(KindText) for a missing one.
func Text(s string) Cell {
	return Cell{kind: KindText, valid: true, text: s}
}

// Int returns a present integer cell.
func Int(v int64) Cell {
	return Cell{kind: KindInt, valid: true, num: v}
}

// Decimal returns a present decimal cell.
func Decimal(d decimal.Decimal) Cell {
	return Cell{kind: KindDecimal, valid: true, dec: d}
}

// Date returns a present date cell truncated to the calendar day in UTC.
func Date(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{kind: KindDate, valid: true, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Null returns a missing cell of the given kind.
func Null(k Kind) Cell {
	return Cell{kind: k}
}

// Kind reports the value type of the cell.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell is missing.
func (c Cell) IsNull() bool { return !c.valid }

// Str returns the text payload. It is only meaningful for text cells.
func (c Cell) Str() string { return c.text }

// Int64 returns the integer payload.
func (c Cell) Int64() int64 { return c.num }

// Dec returns the value as a decimal. Integer cells are widened.
func (c Cell) Dec() decimal.Decimal {
	if c.kind == KindInt {
		return decimal.NewFromInt(c.num)
	}
	return c.dec
}

// Time returns the date payload.
func (c Cell) Time() time.Time { return c.date }

// String renders the cell the way it is written to CSV. Missing cells
// render as the empty string; callers substitute their own null token.
func (c Cell) String() string {
	if !c.valid {
		return ""
	}
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.num, 10)
	case KindDecimal:
		return c.dec.String()
	case KindDate:
		return c.date.Format(DateLayout)
	default:
		return c.text
	}
}

// Equal reports whether two cells hold the same value. Missing cells are
// equal to each other regardless of kind. Numeric cells compare by value,
// so Int(2) equals a decimal 2.00.
func (c Cell) Equal(o Cell) bool {
	if !c.valid || !o.valid {
		return !c.valid && !o.valid
	}
	if c.numeric() && o.numeric() {
		return c.Dec().Equal(o.Dec())
	}
	if c.kind != o.kind {
		return false
	}
	switch c.kind {
	case KindDate:
		return c.date.Equal(o.date)
	default:
		return c.text == o.text
	}
}

func (c Cell) numeric() bool {
	return c.kind == KindInt || c.kind == KindDecimal
}

// canonical is the byte form used for hashing; it agrees with Equal.
func (c Cell) canonical() string {
	if !c.valid {
		return "\x00"
	}
	switch {
	case c.numeric():
		return "n" + c.Dec().String()
	case c.kind == KindDate:
		return "d" + c.date.Format(DateLayout)
	default:
		return "t" + c.text
	}
}
