package cobol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/filety/internal/frame"
)

// ErrInvalidField is returned when a field declaration cannot be encoded.
var ErrInvalidField = errors.New("invalid field declaration")

// Encoding identifies how a field's bytes are laid out.
type Encoding uint8

const (
	// PackedDecimal is COMP-3: two decimal digits per byte, the last
	// nibble holding the sign.
	PackedDecimal Encoding = iota + 1
	// ScaledBinary is COMP: a big-endian binary integer sized by its
	// declared digit count.
	ScaledBinary
	// FixedText is a fixed-width EBCDIC string.
	FixedText
)

func (e Encoding) String() string {
	switch e {
	case PackedDecimal:
		return "packed"
	case ScaledBinary:
		return "binary"
	case FixedText:
		return "text"
	default:
		return "unknown"
	}
}

// maxIntDigits is the widest packed integer that still fits an int64.
const maxIntDigits = 18

// Field is a declared fixed-width field. Its byte width is derived from the
// declaration and never changes.
type Field struct {
	enc        Encoding
	intDigits  int
	fracDigits int
	width      int
	codepage   *Codepage
}

// Packed declares a packed-decimal field with the given integer and
// fractional digit counts.
func Packed(intDigits, fracDigits int) (Field, error) {
	if intDigits < 0 || fracDigits < 0 || intDigits+fracDigits == 0 {
		return Field{}, fmt.Errorf("packed(%d,%d): %w", intDigits, fracDigits, ErrInvalidField)
	}
	return Field{
		enc:        PackedDecimal,
		intDigits:  intDigits,
		fracDigits: fracDigits,
		width:      (intDigits + fracDigits + 2) / 2,
	}, nil
}

// Binary declares a binary integer field of up to 18 digits.
func Binary(digits int) (Field, error) {
	var width int
	switch {
	case digits <= 0:
		return Field{}, fmt.Errorf("binary(%d): %w", digits, ErrInvalidField)
	case digits < 5:
		width = 2
	case digits < 9:
		width = 4
	case digits < 19:
		width = 8
	default:
		return Field{}, fmt.Errorf("binary(%d): at most %d digits: %w", digits, maxIntDigits, ErrInvalidField)
	}
	return Field{enc: ScaledBinary, intDigits: digits, width: width}, nil
}

// Text declares a fixed-width text field in CP500.
func Text(width int) (Field, error) {
	return TextIn(width, CP500)
}

// TextIn declares a fixed-width text field in the given codepage.
func TextIn(width int, cp *Codepage) (Field, error) {
	if width <= 0 {
		return Field{}, fmt.Errorf("text(%d): %w", width, ErrInvalidField)
	}
	if cp == nil {
		return Field{}, fmt.Errorf("text(%d): nil codepage: %w", width, ErrInvalidField)
	}
	return Field{enc: FixedText, width: width, codepage: cp}, nil
}

// MustPacked is like Packed but panics on an invalid declaration.
// It is meant for package-level layouts.
func MustPacked(intDigits, fracDigits int) Field {
	return must(Packed(intDigits, fracDigits))
}

// MustBinary is like Binary but panics on an invalid declaration.
func MustBinary(digits int) Field {
	return must(Binary(digits))
}

// MustText is like Text but panics on an invalid declaration.
func MustText(width int) Field {
	return must(Text(width))
}

func must(f Field, err error) Field {
	if err != nil {
		panic(err)
	}
	return f
}

// Encoding returns the field's encoding.
func (f Field) Encoding() Encoding { return f.enc }

// Width returns the field's size in bytes.
func (f Field) Width() int { return f.width }

// Kind returns the kind of cell Decode produces.
func (f Field) Kind() frame.Kind {
	switch {
	case f.enc == FixedText:
		return frame.KindText
	case f.enc == ScaledBinary || f.integral():
		return frame.KindInt
	default:
		return frame.KindDecimal
	}
}

func (f Field) String() string {
	switch f.enc {
	case PackedDecimal:
		return fmt.Sprintf("packed(%d,%d)", f.intDigits, f.fracDigits)
	case ScaledBinary:
		return fmt.Sprintf("binary(%d)", f.intDigits)
	case FixedText:
		return fmt.Sprintf("text(%d,%s)", f.width, f.codepage.Name())
	default:
		return "unknown"
	}
}

// integral reports whether a packed field decodes to an int64.
func (f Field) integral() bool {
	return f.fracDigits == 0 && 2*f.width-1 <= maxIntDigits
}

// Decode converts exactly Width() bytes to a cell.
func (f Field) Decode(b []byte) (frame.Cell, error) {
	if len(b) != f.width {
		return frame.Cell{}, &FormatError{
			Encoding: f.String(),
			Got:      len(b),
			Want:     f.width,
			Reason:   "wrong byte count",
		}
	}
	switch f.enc {
	case PackedDecimal:
		return f.decodePacked(b)
	case ScaledBinary:
		return f.decodeBinary(b)
	case FixedText:
		return frame.Text(f.codepage.DecodeString(b)), nil
	default:
		return frame.Cell{}, fmt.Errorf("decode: %w", ErrInvalidField)
	}
}

func (f Field) decodePacked(b []byte) (frame.Cell, error) {
	s := hex.EncodeToString(b)
	var negative bool
	switch s[len(s)-1] {
	case 'c':
	case 'd':
		negative = true
	default:
		return frame.Cell{}, f.formatErr(len(b), fmt.Sprintf("invalid sign nibble %q", s[len(s)-1]))
	}
	digits := s[:len(s)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] > '9' {
			return frame.Cell{}, f.formatErr(len(b), fmt.Sprintf("non-decimal digit nibble %q", digits[i]))
		}
	}

	if f.integral() {
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return frame.Cell{}, f.formatErr(len(b), err.Error())
		}
		if negative {
			v = -v
		}
		return frame.Int(v), nil
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return frame.Cell{}, f.formatErr(len(b), err.Error())
	}
	if negative {
		d = d.Neg()
	}
	return frame.Decimal(d.Shift(-int32(f.fracDigits))), nil
}

// decodeBinary reads the hex rendering of the bytes as a base-10 number.
// Extracts from the source system are written that way; a byte rendering
// with a hex letter is rejected.
func (f Field) decodeBinary(b []byte) (frame.Cell, error) {
	s := hex.EncodeToString(b)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return frame.Cell{}, f.formatErr(len(b), fmt.Sprintf("%q is not a decimal rendering", s))
	}
	return frame.Int(int64(v)), nil
}

func (f Field) formatErr(n int, reason string) *FormatError {
	return &FormatError{Encoding: f.String(), Got: n, Want: f.width, Reason: reason}
}
