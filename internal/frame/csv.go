package frame

import (
	"encoding/csv"
	"fmt"
	"io"
)

// DefaultNull is the token written for missing cells.
const DefaultNull = "NULL"

// WriteCSV writes the frame as comma-separated text: one header row, then one
// line per row, with null in place of missing cells. No index column is
// written.
func WriteCSV(w io.Writer, f Frame, null string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(f.names))
	for r := 0; r < f.rows; r++ {
		for c := range f.cols {
			cell := f.cols[c][r]
			if cell.IsNull() {
				record[c] = null
			} else {
				record[c] = cell.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
