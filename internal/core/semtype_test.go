package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/filety/internal/frame"
)

func TestBoundedText(t *testing.T) {
	typ := BoundedText{MaxLength: 5, CollapseWhitespace: true}

	t.Run("consistency uses trimmed length", func(t *testing.T) {
		assert.True(t, typ.IsConsistent(frame.Text("  abcde  ")))
		assert.False(t, typ.IsConsistent(frame.Text("abcdef")))
		assert.True(t, typ.IsConsistent(frame.Null(frame.KindText)))
		assert.True(t, typ.IsConsistent(frame.Text("   ")))
	})

	t.Run("remediation collapses trims and truncates", func(t *testing.T) {
		got := typ.Remediate(frame.Text("  abc   def  "))
		assert.Equal(t, "abc d", got.String())
		assert.True(t, typ.IsConsistent(got))
	})

	t.Run("remediation without collapsing", func(t *testing.T) {
		got := BoundedText{MaxLength: 5}.Remediate(frame.Text("  abc   def  "))
		assert.Equal(t, "abc", got.String())
	})

	t.Run("remediation counts characters not bytes", func(t *testing.T) {
		got := BoundedText{MaxLength: 3}.Remediate(frame.Text("àèìòù"))
		assert.Equal(t, "àèì", got.String())
	})

	t.Run("convert trims", func(t *testing.T) {
		got, err := typ.Convert(frame.Text(" ab "))
		require.NoError(t, err)
		assert.Equal(t, "ab", got.String())

		got, err = typ.Convert(frame.Text(""))
		require.NoError(t, err)
		assert.True(t, got.IsNull())
	})
}

func TestDecimalNumber(t *testing.T) {
	t.Run("comma separator converts", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 2, CommaSeparator: true}
		require.True(t, typ.IsConsistent(frame.Text("12,34")))
		got, err := typ.Convert(frame.Text("12,34"))
		require.NoError(t, err)
		assert.Equal(t, frame.KindDecimal, got.Kind())
		assert.Equal(t, "12.34", got.Dec().String())

		got, err = typ.Convert(frame.Text("1.234,5"))
		require.NoError(t, err)
		assert.Equal(t, "1234.5", got.Dec().String())
	})

	t.Run("too many decimal digits rejected", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 2}
		assert.False(t, typ.IsConsistent(frame.Text("1.234")))
		assert.True(t, typ.IsConsistent(frame.Text("1.230")))
		assert.True(t, typ.IsConsistent(frame.Text("1,234.5")))
	})

	t.Run("typed cells", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 0}
		assert.True(t, typ.IsConsistent(frame.Int(42)))
		got, err := typ.Convert(frame.Int(42))
		require.NoError(t, err)
		assert.Equal(t, "42", got.Dec().String())
	})

	t.Run("garbage fails convert", func(t *testing.T) {
		_, err := DecimalNumber{DecimalDigits: 2}.Convert(frame.Text("abc"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid number")
	})

	t.Run("remediation rounds", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 2}
		got := typ.Remediate(frame.Text("$1.2345"))
		assert.Equal(t, "1.23", got.String())
		assert.True(t, typ.IsConsistent(got))

		got = typ.Remediate(frame.Text("(5.005)"))
		assert.Equal(t, "-5.01", got.String())
	})

	t.Run("remediation keeps comma notation", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 1, CommaSeparator: true}
		got := typ.Remediate(frame.Text("3,14"))
		assert.Equal(t, "3,1", got.String())
		assert.True(t, typ.IsConsistent(got))
	})

	t.Run("remediation leaves garbage inconsistent", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 2}
		got := typ.Remediate(frame.Text(" n/a "))
		assert.Equal(t, "n/a", got.String())
		assert.False(t, typ.IsConsistent(got))
	})

	t.Run("missing stays missing", func(t *testing.T) {
		typ := DecimalNumber{DecimalDigits: 2}
		assert.True(t, typ.Remediate(frame.Text("")).IsNull())
		got, err := typ.Convert(frame.Null(frame.KindText))
		require.NoError(t, err)
		assert.True(t, got.IsNull())
		assert.Equal(t, frame.KindDecimal, got.Kind())
	})
}

func TestFloatingNumber(t *testing.T) {
	typ := FloatingNumber{}
	assert.True(t, typ.IsConsistent(frame.Text("0.000000000123456789")))
	assert.False(t, typ.IsConsistent(frame.Text("1.2.3")))

	got, err := FloatingNumber{CommaSeparator: true}.Convert(frame.Text("1.000,25"))
	require.NoError(t, err)
	assert.Equal(t, "1000.25", got.Dec().String())
}

func TestCalendarDate(t *testing.T) {
	t.Run("round trip in default format", func(t *testing.T) {
		typ := CalendarDate{Format: "%Y-%m-%d"}
		require.True(t, typ.IsConsistent(frame.Text("2024-03-05")))
		got, err := typ.Convert(frame.Text("2024-03-05"))
		require.NoError(t, err)
		assert.Equal(t, frame.KindDate, got.Kind())
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got.Time())
		assert.Equal(t, "2024-03-05", got.String())
	})

	t.Run("trailing time ignored", func(t *testing.T) {
		got, err := CalendarDate{}.Convert(frame.Text("2024-03-05 10:11:12"))
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", got.String())
	})

	t.Run("compact format", func(t *testing.T) {
		typ := CalendarDate{Format: "%Y%m%d"}
		got, err := typ.Convert(frame.Text("20240305"))
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", got.String())
		assert.False(t, typ.IsConsistent(frame.Text("2024-03-05")))
	})

	t.Run("unpadded month and day accepted", func(t *testing.T) {
		typ := CalendarDate{Format: "%Y-%m-%d"}
		for _, v := range []string{"2024-3-5", "2024-03-5", "2024-3-05"} {
			require.True(t, typ.IsConsistent(frame.Text(v)), v)
			got, err := typ.Convert(frame.Text(v))
			require.NoError(t, err, v)
			assert.Equal(t, "2024-03-05", got.String(), v)
			assert.Equal(t, "2024-03-05", typ.Remediate(frame.Text(v)).String(), v)
		}
		got, err := CalendarDate{Format: "%d/%m/%Y"}.Convert(frame.Text("5/3/2024"))
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", got.String())
	})

	t.Run("malformed date remediates to missing", func(t *testing.T) {
		typ := CalendarDate{}
		assert.False(t, typ.IsConsistent(frame.Text("2024-99-99")))
		got := typ.Remediate(frame.Text("2024-99-99"))
		assert.True(t, got.IsNull())
		assert.Equal(t, frame.KindDate, got.Kind())
	})

	t.Run("other layouts remediate into the format", func(t *testing.T) {
		typ := CalendarDate{Format: "%Y%m%d"}
		got := typ.Remediate(frame.Text("05/03/2024"))
		assert.Equal(t, "20240305", got.String())
		assert.True(t, typ.IsConsistent(got))
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		require.Error(t, CalendarDate{Format: "%Q"}.Validate())
		require.NoError(t, CalendarDate{Format: "%d/%m/%Y"}.Validate())
	})

	t.Run("convert error names the value", func(t *testing.T) {
		_, err := CalendarDate{}.Convert(frame.Text("yesterday"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date")
	})
}

func TestCategorical(t *testing.T) {
	typ := Categorical{
		Allowed:    []string{"Y", "N"},
		Default:    "N",
		Normalizer: strings.ToUpper,
	}

	assert.True(t, typ.IsConsistent(frame.Text(" y ")))
	assert.True(t, typ.IsConsistent(frame.Null(frame.KindText)))
	assert.False(t, typ.IsConsistent(frame.Text("maybe")))

	got, err := typ.Convert(frame.Text("y"))
	require.NoError(t, err)
	assert.Equal(t, "Y", got.String())

	got, err = typ.Convert(frame.Text(""))
	require.NoError(t, err)
	assert.Equal(t, "N", got.String())

	_, err = typ.Convert(frame.Text("maybe"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid enum")

	assert.Equal(t, "N", typ.Remediate(frame.Text("maybe")).String())
	assert.True(t, Categorical{Allowed: []string{"A"}}.Remediate(frame.Text("B")).IsNull())
}

func TestSemanticTypeDescriptions(t *testing.T) {
	types := []SemanticType{
		BoundedText{MaxLength: 3},
		DecimalNumber{DecimalDigits: 2},
		FloatingNumber{},
		CalendarDate{},
		Categorical{Allowed: []string{"A"}},
	}
	for _, typ := range types {
		assert.NotEmpty(t, typ.String())
		assert.NotEmpty(t, typ.RemediationDescription(), typ.String())
	}
}
