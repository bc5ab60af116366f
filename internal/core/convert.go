package core

// convert.go provides the lenient parsers used when remediating values.
//
// Remediation has to cope with the messy reality of exported data:
//   - currency symbols and accounting parentheses around amounts
//   - dates written in whatever layout the source system preferred
//   - spreadsheet artifacts such as ="value" prefixes
//
// None of these functions fail loudly; they report whether they recognised
// the input and leave the decision to the caller.

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/filety/internal/frame"
)

// numericRegex matches integers, decimals and scientific notation after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are
// moved to the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"2/1/06", "02/01/06", "2-1-06", "2.1.06", "02.01.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02", "20060102",
		"2/1/2006", "02/01/2006", "2-1-2006", "02-01-2006", "2.1.2006", "02.01.2006",
		"2006-01-02T15:04:05", "2006-01-02 15:04:05", time.RFC3339,
		"Jan 2, 2006", "2 Jan 2006", "02-Jan-2006",
	}
)

// parseLooseDate tries the known layouts in order. Day-first layouts are
// tried before month-first ones because the extracts come from European
// systems.
func parseLooseDate(s string) (time.Time, bool) {
	s = CleanCell(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// cleanNumber strips currency symbols and turns "(123.45)" into "-123.45".
// Grouping marks are left to the caller, which knows the decimal mark.
func cleanNumber(s string) string {
	s = CleanCell(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", " ", "").Replace(s)

	if negative && s != "" {
		s = "-" + strings.TrimPrefix(s, "-")
	}
	return s
}

// parseNumber parses a cleaned numeric string. It rejects anything that is
// not a plain decimal or scientific literal.
func parseNumber(s string) (decimal.Decimal, bool) {
	if !numericRegex.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes the formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// rawValue returns the textual form of a cell and whether it holds a value.
// Blank text counts as missing.
func rawValue(c frame.Cell) (string, bool) {
	if c.IsNull() {
		return "", false
	}
	s := c.String()
	if c.Kind() == frame.KindText && strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
