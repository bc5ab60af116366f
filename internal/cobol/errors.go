package cobol

import (
	"fmt"
	"strings"
)

// FormatError reports bytes that do not match the declared record layout.
// It is always fatal for the input it was raised on.
type FormatError struct {
	Field    string // column name, empty for record-level errors
	Row      int    // 1-based row number, 0 for record-level errors
	Encoding string // field declaration, e.g. "packed(13,2)"
	Got      int    // byte count seen
	Want     int    // byte count required
	Reason   string
}

func (e *FormatError) Error() string {
	var sb strings.Builder
	sb.WriteString("format error")
	if e.Field != "" {
		fmt.Fprintf(&sb, " in %q", e.Field)
	}
	if e.Row > 0 {
		fmt.Fprintf(&sb, " at row %d", e.Row)
	}
	if e.Encoding != "" {
		fmt.Fprintf(&sb, " decoding %d bytes as %s (%d required)", e.Got, e.Encoding, e.Want)
	} else {
		fmt.Fprintf(&sb, ": %d bytes, row width %d", e.Got, e.Want)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}
