package categories

import (
	"github.com/JonMunkholm/filety/internal/cobol"
	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/frame"
)

// GroupEBCDIC groups the fixed-width mainframe extracts.
const GroupEBCDIC = "EBCDIC"

// record is one field of a fixed-width extract. Fields without a type are
// padding: they are skipped when decoding and are not required columns.
type record struct {
	name  string
	field cobol.Field
	typ   core.SemanticType
}

func text(name string, width int) record {
	return record{name: name, field: cobol.MustText(width), typ: core.BoundedText{MaxLength: width}}
}

func date(name string) record {
	return record{name: name, field: cobol.MustText(10), typ: core.CalendarDate{Format: "%Y-%m-%d"}}
}

func packed(name string, intDigits, fracDigits int) record {
	return record{name: name, field: cobol.MustPacked(intDigits, fracDigits), typ: core.DecimalNumber{DecimalDigits: fracDigits}}
}

func binary(name string, digits int) record {
	return record{name: name, field: cobol.MustBinary(digits), typ: core.DecimalNumber{}}
}

func filler(name string, width int) record {
	return record{name: name, field: cobol.MustText(width)}
}

// extract describes a fixed-width category. Typed field names, the natural
// key and the split columns get the prefix; padding names are used as given.
type extract struct {
	name, label, prefix string
	fields              []record
	naturalKey          []string
	splitBy             []string
}

func (e extract) qualify(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = e.prefix + n
	}
	return out
}

// category builds the layout and the typed column list of the extract.
// Invalid declarations panic at registration time.
func (e extract) category() core.Category {
	var (
		cols    []cobol.Column
		specs   []core.ColumnSpec
		padding []string
	)
	for _, r := range e.fields {
		name := r.name
		if r.typ != nil {
			name = e.prefix + name
			specs = append(specs, core.ColumnSpec{Name: name, Type: r.typ})
		} else {
			padding = append(padding, name)
		}
		cols = append(cols, cobol.Column{Name: name, Field: r.field})
	}
	layout := cobol.MustLayout(cols...)

	return core.Category{
		Name:       e.name,
		Group:      GroupEBCDIC,
		Label:      e.label,
		Columns:    specs,
		NaturalKey: e.qualify(e.naturalKey),
		SplitBy:    e.qualify(e.splitBy),
		Read: func(data []byte) (frame.Frame, error) {
			return layout.Decode(data, padding...)
		},
	}
}
