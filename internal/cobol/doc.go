// Package cobol decodes fixed-width records exported from mainframe files.
//
// Three field encodings are supported:
//
//   - [Packed]: packed decimal (COMP-3), decoded to an integer or decimal cell
//   - [Binary]: binary integer (COMP), 2, 4 or 8 bytes by digit count
//   - [Text]: fixed-width EBCDIC text, CP500 unless another [Codepage] is given
//
// A [Layout] lists named fields in record order and turns a byte slice into
// a frame.Frame with one column per field:
//
//	layout := cobol.MustLayout(
//	    cobol.Column{Name: "societa", Field: cobol.MustText(2)},
//	    cobol.Column{Name: "numreg", Field: cobol.MustPacked(12, 0)},
//	    cobol.Column{Name: "importo", Field: cobol.MustPacked(13, 2)},
//	)
//	f, err := layout.Decode(data)
//
// Any mismatch between the bytes and the declaration is reported as a
// [*FormatError] and aborts the decode. This is not a copybook parser.
package cobol
