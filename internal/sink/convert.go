package sink

// convert.go maps frame cells to pgx values. Missing cells become the
// invalid value of the type their column holds, so COPY writes NULL.

import (
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/filety/internal/frame"
)

// ToPgValue converts a cell to the pgtype value matching its kind.
func ToPgValue(c frame.Cell) any {
	switch c.Kind() {
	case frame.KindInt:
		return ToPgInt8(c)
	case frame.KindDecimal:
		return ToPgNumeric(c)
	case frame.KindDate:
		return ToPgDate(c)
	default:
		return ToPgText(c)
	}
}

// ToPgText converts a text cell to pgtype.Text.
func ToPgText(c frame.Cell) pgtype.Text {
	if c.IsNull() {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: c.String(), Valid: true}
}

// ToPgInt8 converts an integer cell to pgtype.Int8.
func ToPgInt8(c frame.Cell) pgtype.Int8 {
	if c.IsNull() {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: c.Int64(), Valid: true}
}

// ToPgNumeric converts a numeric cell to pgtype.Numeric without going
// through a float.
func ToPgNumeric(c frame.Cell) pgtype.Numeric {
	if c.IsNull() {
		return pgtype.Numeric{Valid: false}
	}
	d := c.Dec()
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// ToPgDate converts a date cell to pgtype.Date.
func ToPgDate(c frame.Cell) pgtype.Date {
	if c.IsNull() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: c.Time(), Valid: true}
}

// ColumnName turns a frame column name into a Postgres identifier:
// lowercase, with every run of other characters replaced by one underscore.
func ColumnName(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
