package core

// semtype.go defines the closed set of semantic column types.
//
// A semantic type answers three questions about a raw cell: does it fit
// (IsConsistent), what is its canonical typed value (Convert), and what is
// the closest value that does fit (Remediate). Missing cells always fit.
// Remediate never fails; it may return a value that still does not fit, in
// which case the re-check after remediation reports it.

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/filety/internal/frame"
)

// SemanticType is implemented by BoundedText, DecimalNumber,
// FloatingNumber, CalendarDate and Categorical only.
type SemanticType interface {
	fmt.Stringer

	// Kind is the cell kind produced by Convert.
	Kind() frame.Kind

	IsConsistent(c frame.Cell) bool
	Convert(c frame.Cell) (frame.Cell, error)
	Remediate(c frame.Cell) frame.Cell

	// RemediationDescription says what Remediate does, for diagnostics.
	RemediationDescription() string

	semantic()
}

// ---------------------------------------------------------------------------
// BoundedText
// ---------------------------------------------------------------------------

// BoundedText is free text of at most MaxLength characters once trimmed.
// CollapseWhitespace makes remediation squeeze inner runs of whitespace to
// a single space before truncating.
type BoundedText struct {
	MaxLength          int
	CollapseWhitespace bool
}

func (BoundedText) semantic() {}

func (t BoundedText) String() string {
	if t.CollapseWhitespace {
		return fmt.Sprintf("collapsed varchar[%d]", t.MaxLength)
	}
	return fmt.Sprintf("varchar[%d]", t.MaxLength)
}

func (BoundedText) Kind() frame.Kind { return frame.KindText }

func (t BoundedText) IsConsistent(c frame.Cell) bool {
	s, ok := rawValue(c)
	if !ok {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(s)) <= t.MaxLength
}

func (t BoundedText) Convert(c frame.Cell) (frame.Cell, error) {
	s, ok := rawValue(c)
	if !ok {
		return frame.Null(frame.KindText), nil
	}
	return frame.Text(strings.TrimSpace(s)), nil
}

var spaceRun = regexp.MustCompile(` {2,}`)

func (t BoundedText) Remediate(c frame.Cell) frame.Cell {
	if c.IsNull() {
		return frame.Null(frame.KindText)
	}
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, c.String())
	s = strings.Trim(s, " ")
	if t.CollapseWhitespace {
		s = spaceRun.ReplaceAllString(s, " ")
	}
	if utf8.RuneCountInString(s) > t.MaxLength {
		s = string([]rune(s)[:max(t.MaxLength, 0)])
	}
	return frame.Text(strings.TrimRight(s, " "))
}

func (t BoundedText) RemediationDescription() string {
	desc := fmt.Sprintf("will be trimmed and truncated to the first %d characters", t.MaxLength)
	if t.CollapseWhitespace {
		desc = "will have whitespace runs collapsed, then " + desc
	}
	return desc
}

// ---------------------------------------------------------------------------
// DecimalNumber and FloatingNumber
// ---------------------------------------------------------------------------

// DecimalNumber is a number with at most DecimalDigits fractional digits,
// trailing zeros excluded. With CommaSeparator the decimal mark is ',' and
// '.' groups thousands; otherwise ',' groups thousands.
type DecimalNumber struct {
	DecimalDigits  int
	CommaSeparator bool
}

func (DecimalNumber) semantic() {}

func (t DecimalNumber) String() string {
	if t.CommaSeparator {
		return fmt.Sprintf("comma-separated decimal[%d]", t.DecimalDigits)
	}
	return fmt.Sprintf("decimal[%d]", t.DecimalDigits)
}

func (DecimalNumber) Kind() frame.Kind { return frame.KindDecimal }

// normalize rewrites the text in dot-decimal notation without grouping marks.
func (t DecimalNumber) normalize(s string) string {
	s = strings.TrimSpace(s)
	if t.CommaSeparator {
		return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	}
	return strings.ReplaceAll(s, ",", "")
}

// parse returns the value of a present cell.
func (t DecimalNumber) parse(c frame.Cell) (decimal.Decimal, error) {
	switch c.Kind() {
	case frame.KindInt, frame.KindDecimal:
		return c.Dec(), nil
	}
	s := c.String()
	d, ok := parseNumber(t.normalize(s))
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

func (t DecimalNumber) IsConsistent(c frame.Cell) bool {
	if _, ok := rawValue(c); !ok {
		return true
	}
	d, err := t.parse(c)
	if err != nil {
		return false
	}
	return fractionDigits(d) <= t.DecimalDigits
}

func (t DecimalNumber) Convert(c frame.Cell) (frame.Cell, error) {
	if _, ok := rawValue(c); !ok {
		return frame.Null(frame.KindDecimal), nil
	}
	d, err := t.parse(c)
	if err != nil {
		return frame.Cell{}, err
	}
	return frame.Decimal(d), nil
}

// Remediate rounds recognised numbers to DecimalDigits. Text with no
// recognisable number is returned trimmed, so the re-check still rejects it.
func (t DecimalNumber) Remediate(c frame.Cell) frame.Cell {
	if _, ok := rawValue(c); !ok {
		return frame.Null(frame.KindDecimal)
	}
	if c.Kind() == frame.KindInt || c.Kind() == frame.KindDecimal {
		return frame.Decimal(c.Dec().Round(int32(t.DecimalDigits)))
	}
	s := cleanNumber(c.String())
	d, ok := parseNumber(t.normalize(s))
	if !ok {
		return frame.Text(strings.TrimSpace(c.String()))
	}
	out := d.Round(int32(t.DecimalDigits)).String()
	if t.CommaSeparator {
		out = strings.ReplaceAll(out, ".", ",")
	}
	return frame.Text(out)
}

func (t DecimalNumber) RemediationDescription() string {
	return fmt.Sprintf("will be rounded to %d decimal digits if a number is recognised", t.DecimalDigits)
}

// fractionDigits counts the significant fractional digits of d.
func fractionDigits(d decimal.Decimal) int {
	s := d.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// floatDigits is the fractional precision accepted by FloatingNumber.
const floatDigits = 53

// FloatingNumber is a number of any practical precision.
type FloatingNumber struct {
	CommaSeparator bool
}

func (FloatingNumber) semantic() {}

func (t FloatingNumber) asDecimal() DecimalNumber {
	return DecimalNumber{DecimalDigits: floatDigits, CommaSeparator: t.CommaSeparator}
}

func (t FloatingNumber) String() string {
	if t.CommaSeparator {
		return "comma-separated float"
	}
	return "float"
}

func (FloatingNumber) Kind() frame.Kind { return frame.KindDecimal }

func (t FloatingNumber) IsConsistent(c frame.Cell) bool { return t.asDecimal().IsConsistent(c) }

func (t FloatingNumber) Convert(c frame.Cell) (frame.Cell, error) { return t.asDecimal().Convert(c) }

func (t FloatingNumber) Remediate(c frame.Cell) frame.Cell { return t.asDecimal().Remediate(c) }

func (t FloatingNumber) RemediationDescription() string {
	return "will be parsed as a number if one is recognised"
}

// ---------------------------------------------------------------------------
// CalendarDate
// ---------------------------------------------------------------------------

// DefaultDateFormat is the strftime format used when CalendarDate.Format is empty.
const DefaultDateFormat = "%Y-%m-%d"

// referenceDate fixes how many leading characters of a value are parsed.
var referenceDate = time.Date(2000, 10, 10, 0, 0, 0, 0, time.UTC)

// CalendarDate is a day written with the strftime Format. Only the first
// N characters are read, N being the length of 2000-10-10 in that format,
// so trailing time components are ignored.
type CalendarDate struct {
	Format string
}

func (CalendarDate) semantic() {}

func (t CalendarDate) format() string {
	if t.Format == "" {
		return DefaultDateFormat
	}
	return t.Format
}

func (t CalendarDate) String() string { return fmt.Sprintf("date[%s]", t.format()) }

func (CalendarDate) Kind() frame.Kind { return frame.KindDate }

// Validate reports whether Format can be parsed.
func (t CalendarDate) Validate() error {
	_, err := strftime.Layout(t.format())
	return err
}

// parse reads s with Format. Month, day and time fields may omit their
// leading zero.
func (t CalendarDate) parse(s string) (time.Time, error) {
	if err := t.Validate(); err != nil {
		return time.Time{}, err
	}
	if n := len(strftime.Format(t.format(), referenceDate)); len(s) > n {
		s = s[:n]
	}
	d, err := strftime.Parse(t.format(), s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q for format %s", s, t.format())
	}
	return d, nil
}

func (t CalendarDate) IsConsistent(c frame.Cell) bool {
	_, err := t.Convert(c)
	return err == nil
}

func (t CalendarDate) Convert(c frame.Cell) (frame.Cell, error) {
	s, ok := rawValue(c)
	if !ok {
		return frame.Null(frame.KindDate), nil
	}
	if c.Kind() == frame.KindDate {
		return c, nil
	}
	d, err := t.parse(strings.TrimSpace(s))
	if err != nil {
		return frame.Cell{}, err
	}
	return frame.Date(d), nil
}

// Remediate rewrites any recognisable date in Format and drops the rest.
func (t CalendarDate) Remediate(c frame.Cell) frame.Cell {
	s, ok := rawValue(c)
	if !ok {
		return frame.Null(frame.KindDate)
	}
	if c.Kind() == frame.KindDate {
		return c
	}
	s = strings.TrimSpace(s)
	if d, err := strftime.Parse(t.format(), s); err == nil {
		return frame.Text(strftime.Format(t.format(), d))
	}
	if d, ok := parseLooseDate(s); ok {
		return frame.Text(strftime.Format(t.format(), d))
	}
	return frame.Null(frame.KindDate)
}

func (t CalendarDate) RemediationDescription() string {
	return fmt.Sprintf("will be formatted as %s if a date is recognised and dropped otherwise", t.format())
}

// ---------------------------------------------------------------------------
// Categorical
// ---------------------------------------------------------------------------

// Categorical accepts a fixed set of values. Normalizer, when set, is
// applied to the trimmed value before the membership test. Default stands
// in for missing values and for values remediation cannot place; an empty
// Default means missing.
type Categorical struct {
	Allowed    []string
	Default    string
	Normalizer func(string) string
}

func (Categorical) semantic() {}

func (t Categorical) String() string {
	return fmt.Sprintf("categorical{%s}", strings.Join(t.Allowed, ","))
}

func (Categorical) Kind() frame.Kind { return frame.KindText }

func (t Categorical) normalize(s string) string {
	s = strings.TrimSpace(s)
	if t.Normalizer != nil {
		s = t.Normalizer(s)
	}
	return s
}

func (t Categorical) accepts(v string) bool {
	return (t.Default != "" && v == t.Default) || slices.Contains(t.Allowed, v)
}

func (t Categorical) fallback() frame.Cell {
	if t.Default == "" {
		return frame.Null(frame.KindText)
	}
	return frame.Text(t.Default)
}

func (t Categorical) IsConsistent(c frame.Cell) bool {
	s, ok := rawValue(c)
	if !ok {
		return true
	}
	return t.accepts(t.normalize(s))
}

func (t Categorical) Convert(c frame.Cell) (frame.Cell, error) {
	s, ok := rawValue(c)
	if !ok {
		return t.fallback(), nil
	}
	v := t.normalize(s)
	if !t.accepts(v) {
		return frame.Cell{}, fmt.Errorf("invalid enum %q: must be one of %s", s, strings.Join(t.Allowed, ", "))
	}
	return frame.Text(v), nil
}

func (t Categorical) Remediate(c frame.Cell) frame.Cell {
	s, ok := rawValue(c)
	if !ok {
		return t.fallback()
	}
	if v := t.normalize(s); t.accepts(v) {
		return frame.Text(v)
	}
	return t.fallback()
}

func (t Categorical) RemediationDescription() string {
	if t.Default == "" {
		return "will be dropped when not one of " + strings.Join(t.Allowed, ", ")
	}
	return fmt.Sprintf("will be replaced by %q when not one of %s", t.Default, strings.Join(t.Allowed, ", "))
}
