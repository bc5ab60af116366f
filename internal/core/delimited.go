package core

// delimited.go reads delimited UTF-8 text into a frame.
//
// Input passes through the streaming readers first (BOM removal, invalid
// UTF-8 replacement) and is then parsed with encoding/csv. Every cell comes
// out as text; empty cells and cells equal to the null token are missing.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/filety/internal/frame"
)

// DelimitedOptions controls ReadDelimited.
type DelimitedOptions struct {
	Comma          rune   // field separator, ',' when zero
	Null           string // token read as a missing value, in addition to ""
	LowerHeaders   bool   // lowercase header names
	DropSummaryRow bool   // drop a trailing totals line
}

// ReadDelimited parses r into a frame of text cells.
func ReadDelimited(r io.Reader, opts DelimitedOptions) (frame.Frame, error) {
	cr := csv.NewReader(WrapForStreaming(r))
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return frame.Frame{}, errors.New("empty file: no header row")
	}
	if err != nil {
		return frame.Frame{}, fmt.Errorf("invalid csv header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		h = CleanCell(h)
		if opts.LowerHeaders {
			h = strings.ToLower(h)
		}
		names[i] = h
	}

	cols := make([][]frame.Cell, len(names))
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frame.Frame{}, fmt.Errorf("invalid csv at line %d: %w", line, err)
		}
		for i, v := range record {
			if v == "" || (opts.Null != "" && v == opts.Null) {
				cols[i] = append(cols[i], frame.Null(frame.KindText))
			} else {
				cols[i] = append(cols[i], frame.Text(v))
			}
		}
	}

	f, err := frame.New(names, cols)
	if err != nil {
		return frame.Frame{}, fmt.Errorf("invalid csv: %w", err)
	}
	if opts.DropSummaryRow {
		f = f.DropSummaryRow()
	}
	return f, nil
}

// ReadDelimitedBytes is ReadDelimited over an in-memory input.
func ReadDelimitedBytes(data []byte, opts DelimitedOptions) (frame.Frame, error) {
	return ReadDelimited(bytes.NewReader(data), opts)
}
