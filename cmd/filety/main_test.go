package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/filety/internal/core"
)

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STORAGE_LOCAL_PATH", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

const navHeader = "NAV DATE|SHARE CODE|TA SHARE TYPE|SHARE CURRENCY|NUMBER OF SHARES|SHARE PRICE|" +
	"TOTAL REDEMPTION IN SHARE|TOTAL SUBSCRIPTION IN SHARE|TOTAL REDEMPTION IN AMOUNT|" +
	"TOTAL SUBSCRIPTION IN AMOUNT|NEXT NAV DATE|PREVIOUS NAV DATE|NET ASSET VALUE|WEIGHT OF SHARE|" +
	"EXCHANGE RATE WITH OFFICIAL CCY|OFFICIAL NAV|ISIN QS CODE\n"

func navRow(official, isin string) string {
	return "20240305|A|ACC|eur|1000.5|12.3456|0|10|0|123.456|20240306|20240304|12345.67|0.5|1|" +
		official + "|" + isin + "\n"
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCategories(t *testing.T) {
	out, _, err := runCLI(t, "categories")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "Name\tGroup\tLabel\tColumns\tNatural key\tSplit by", lines[0])
	assert.Contains(t, out, "DMCO\tEBCDIC")
	assert.Contains(t, out, "S1cail\tNAV")
}

func TestCategoryShow_JSON(t *testing.T) {
	out, _, err := runCLI(t, "--json", "categories", "show", "S1cail")
	require.NoError(t, err)

	var got categorySummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "S1cail", got.Name)
	assert.Equal(t, []string{"isin qs code"}, got.NaturalKey)
	assert.Len(t, got.Columns, 17)
}

func TestCategoryShow_Unknown(t *testing.T) {
	_, _, err := runCLI(t, "categories", "show", "NOPE")
	assert.ErrorIs(t, err, core.ErrUnknownCategory)
}

func TestProcess(t *testing.T) {
	path := writeFile(t, "nav.csv", navHeader+navRow("Y", "IT0000000001")+navRow("N", "IT0000000002"))
	target := filepath.Join(t.TempDir(), "out.csv")

	_, stderr, err := runCLI(t, "process", "S1cail", path, "-o", target)
	require.NoError(t, err)
	assert.Contains(t, stderr, "nav.csv: post-checked, 1 rows")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "nav date,share code,"))
	assert.Contains(t, lines[1], "IT0000000001")
	assert.Contains(t, lines[1], ",EUR,")
}

func TestProcess_Stdout(t *testing.T) {
	path := writeFile(t, "nav.csv", navHeader+navRow("Y", "IT0000000001"))
	out, _, err := runCLI(t, "process", "S1cail", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "nav date,"))
}

func TestProcess_SchemaError(t *testing.T) {
	path := writeFile(t, "nav.csv", "nav date|isin qs code\n20240305|IT0000000001\n")
	_, stderr, err := runCLI(t, "process", "S1cail", path)

	var se *core.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Missing, "official nav")
	assert.Contains(t, stderr, "failed at: selected")
}

func TestProcess_JSONReport(t *testing.T) {
	path := writeFile(t, "nav.csv", navHeader+navRow("Y", "IT0000000001"))
	out, _, err := runCLI(t, "--json", "process", "S1cail", path)
	require.NoError(t, err)

	var res core.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "S1cail", res.Category)
	assert.Equal(t, 1, res.Rows)
}

func TestDecode(t *testing.T) {
	path := writeFile(t, "nav.csv", navHeader+navRow("Y", "IT0000000001")+navRow("N", "IT0000000002"))
	out, _, err := runCLI(t, "decode", "S1cail", path, "--limit", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "eur")
}

func TestReset_RequiresConfirmation(t *testing.T) {
	_, _, err := runCLI(t, "reset", "DMCO")
	require.ErrorContains(t, err, "--yes")

	_, _, err = runCLI(t, "reset")
	require.Error(t, err)

	out, _, err := runCLI(t, "reset", "DMCO", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset 1 categories")
}

func TestInboxRun_Empty(t *testing.T) {
	out, _, err := runCLI(t, "inbox", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Inbox is empty")
}
