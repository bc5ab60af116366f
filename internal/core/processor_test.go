package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, name, csv string) Table {
	t.Helper()
	registerTestCategories(t)
	tbl, err := ReadTable(name, testCategory, []byte(csv))
	require.NoError(t, err)
	return tbl
}

func TestProcess_Succeeds(t *testing.T) {
	tbl := newTestTable(t, "ok.csv",
		"extra,id,amount,day,kind\n"+
			"z,a1,10.5,2024-03-05,A\n"+
			"z,a2,NULL,2024-03-06,B\n"+
			"z,a3,7,2024-03-05,\n")

	out, err := NewProcessor(DefaultOptions()).Process(tbl)
	require.NoError(t, err)

	assert.Equal(t, StatePostChecked, out.State)
	assert.Equal(t, "ok.csv", out.Table.Name())
	assert.Equal(t, []string{"id", "amount", "day", "kind"}, out.Table.Frame().Columns())

	// Transform drops kind B; missing kind defaults to A.
	require.Equal(t, 2, out.Table.Len())
	assert.Equal(t, "a3", out.Table.Frame().Cell(1, "id").String())
	assert.Equal(t, "A", out.Table.Frame().Cell(1, "kind").String())

	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "2 distinct days")

	// The input table is untouched.
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 5, tbl.Frame().Width())
}

func TestProcess_MissingColumnFailsBeforeTyping(t *testing.T) {
	// amount is garbage; typing would fail if it ran.
	tbl := newTestTable(t, "short.csv",
		"id,amount,kind\n"+
			"a1,x,A\n"+
			"a2,y,A\n"+
			"a3,z,A\n")

	out, err := NewProcessor(DefaultOptions()).Process(tbl)
	require.Error(t, err)

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "short.csv", se.File)
	assert.Equal(t, []string{"day"}, se.Missing)

	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, StateSelected, out.FailedAt)
	assert.Empty(t, out.Typing.Inconsistent)
}

func TestProcess_TypingFailureCarriesTableName(t *testing.T) {
	tbl := newTestTable(t, "bad.csv",
		"id,amount,day,kind\n"+
			"a1,garbage,2024-03-05,A\n")

	out, err := NewProcessor(DefaultOptions()).Process(tbl)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "bad.csv", ve.Table)
	assert.Contains(t, err.Error(), `processing "bad.csv"`)
	assert.Equal(t, StateTyped, out.FailedAt)
	assert.Equal(t, []string{"amount"}, out.Typing.Remediated)
}

func TestProcess_RepeatedNaturalKey(t *testing.T) {
	tbl := newTestTable(t, "dup.csv",
		"id,amount,day,kind\n"+
			"a1,1,2024-03-05,A\n"+
			"a1,2,2024-03-05,A\n"+
			"a2,3,2024-03-05,A\n")

	out, err := NewProcessor(DefaultOptions()).Process(tbl)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "dup.csv", ve.Table)
	require.Len(t, ve.Duplicates, 1)
	assert.Equal(t, []string{"a1"}, ve.Duplicates[0].Key)
	assert.Equal(t, 2, ve.Duplicates[0].Count)
	assert.Contains(t, err.Error(), "a1: 2 rows")
	assert.Equal(t, StateKeyChecked, out.FailedAt)
}

func TestProcess_BlankNaturalKey(t *testing.T) {
	tbl := newTestTable(t, "blank.csv",
		"id,amount,day,kind\n"+
			",1,2024-03-05,A\n"+
			"a2,3,2024-03-05,A\n")

	_, err := NewProcessor(DefaultOptions()).Process(tbl)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.BlankKeys)
}

func TestProcess_PostCheckDomainError(t *testing.T) {
	tbl := newTestTable(t, "empty.csv",
		"id,amount,day,kind\n"+
			"a1,1,2024-03-05,B\n")

	out, err := NewProcessor(DefaultOptions()).Process(tbl)
	require.Error(t, err)

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "empty.csv", de.Table)
	assert.Equal(t, StatePostChecked, out.FailedAt)
}

func TestProcess_RemediationDisabled(t *testing.T) {
	tbl := newTestTable(t, "long.csv",
		"id,amount,day,kind\n"+
			"toolongid,1,2024-03-05,A\n")

	_, err := NewProcessor(Options{}).Process(tbl)
	require.Error(t, err)

	out, err := NewProcessor(Options{Remediate: true}).Process(tbl)
	require.NoError(t, err)
	assert.Equal(t, "toolo", out.Table.Frame().Cell(0, "id").String())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "key-checked", StateKeyChecked.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestWithTable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantCode string
		sameErr  bool // err stays in the chain rather than being copied
	}{
		{
			name:     "domain error gets the table",
			err:      Domainf("no rows left"),
			wantMsg:  `processing "x.csv": domain check failed: no rows left`,
			wantCode: "DOM001",
		},
		{
			name:     "wrapped domain error keeps the hook context",
			err:      fmt.Errorf("checking totals: %w", Domainf("sum is negative")),
			wantMsg:  `processing "x.csv": checking totals: domain check failed: sum is negative`,
			wantCode: "DOM001",
			sameErr:  true,
		},
		{
			name:    "other errors pass through",
			err:     errors.New("disk full"),
			wantMsg: "disk full",
			sameErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := withTable(tt.err, "x.csv")
			assert.Equal(t, tt.wantMsg, got.Error())
			if tt.sameErr {
				assert.ErrorIs(t, got, tt.err)
			}
			if tt.wantCode != "" {
				var de *DomainError
				require.True(t, errors.As(got, &de))
				assert.Equal(t, tt.wantCode, MapError(got).Code)
			}
		})
	}
}
