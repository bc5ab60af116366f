package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/filety/internal/frame"
)

func TestReadDelimited(t *testing.T) {
	r := require.New(t)

	input := "\xEF\xBB\xBFNav Date|Share Code|Official NAV\n" +
		"20240301|A1|Y\n" +
		"20240301||NULL\n"

	f, err := ReadDelimited(strings.NewReader(input), DelimitedOptions{
		Comma:        '|',
		Null:         "NULL",
		LowerHeaders: true,
	})
	r.NoError(err)
	r.Equal([]string{"nav date", "share code", "official nav"}, f.Columns())
	r.Equal(2, f.Len())
	r.Equal("A1", f.Cell(0, "share code").String())
	r.True(f.Cell(1, "share code").IsNull())
	r.True(f.Cell(1, "official nav").IsNull())
	r.Equal(frame.KindText, f.Cell(0, "nav date").Kind())
}

func TestReadDelimited_DropSummaryRow(t *testing.T) {
	r := require.New(t)

	input := "a,b\n1,2\n3,4\nTotal,\n"
	f, err := ReadDelimitedBytes([]byte(input), DelimitedOptions{DropSummaryRow: true})
	r.NoError(err)
	r.Equal(2, f.Len())
}

func TestReadDelimited_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty input", input: "", wantErr: "empty file"},
		{name: "ragged row", input: "a,b\n1,2,3\n", wantErr: "invalid csv at line 2"},
		{name: "duplicate header", input: "a,a\n1,2\n", wantErr: "invalid csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDelimitedBytes([]byte(tt.input), DelimitedOptions{})
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
