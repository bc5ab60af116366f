package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/application"
	"github.com/JonMunkholm/filety/internal/core"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var out string
	var remediate bool
	var store bool

	cmd := &cobra.Command{
		Use:   "process <category> <file>",
		Short: "Process a file and write the resulting CSV",
		Long: "Process reads, types and checks a file, then writes the table as CSV to --out " +
			"(stdout by default). With --store the raw file is backed up, the table is " +
			"published to storage and loaded into the database when one is configured.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, path := args[0], args[1]
			if _, err := core.Lookup(category); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			req := core.Request{
				Name:     filepath.Base(path),
				Category: category,
				Data:     data,
				DryRun:   !store,
			}
			if cmd.Flags().Changed("remediate") {
				req.Remediate = &remediate
			}

			opts := application.Options{Archive: store, Database: store}
			return ctx.withApp(cmd, opts, func(app *application.App) error {
				res, err := app.Service.Process(cmd.Context(), req)
				if res != nil {
					if rerr := ctx.report(cmd, res); rerr != nil {
						return rerr
					}
				}
				if err != nil {
					return err
				}
				if ctx.json() && (out == "" || out == "-") {
					// stdout already carries the JSON report
					return nil
				}
				return writeOutput(cmd, out, res.CSV)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output CSV path, - for stdout")
	cmd.Flags().BoolVar(&remediate, "remediate", true, "Remediate values that do not fit their column type (default from PROCESS_REMEDIATE)")
	cmd.Flags().BoolVar(&store, "store", false, "Back up, publish and load the result")
	return cmd
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// report prints the run summary to stderr, or the whole result as JSON to
// stdout with --json.
func (c *commandContext) report(cmd *cobra.Command, res *core.Result) error {
	if c.json() {
		return writeJSON(cmd, res)
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s: %s, %d rows (run %s)\n", res.Name, res.State, res.Rows, res.RunID)
	if res.FailedAt != "" {
		fmt.Fprintf(w, "failed at: %s\n", res.FailedAt)
	}
	printIssues(w, "inconsistent values", res.Typing.Inconsistent)
	if len(res.Typing.Remediated) > 0 {
		fmt.Fprintf(w, "remediated: %s\n", strings.Join(res.Typing.Remediated, ", "))
		printIssues(w, "after remediation", res.Typing.Remaining)
	}
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, key := range res.Published {
		fmt.Fprintf(w, "published: %s\n", key)
	}
	if res.Loaded > 0 {
		fmt.Fprintf(w, "loaded: %d rows\n", res.Loaded)
	}
	return nil
}

func printIssues(w io.Writer, title string, issues []core.ColumnIssue) {
	if len(issues) == 0 {
		return
	}
	rows := make([][]string, len(issues))
	for i, is := range issues {
		rows[i] = []string{is.Column, is.Type, strconv.Itoa(len(is.Values)), sample(is.Values, 5)}
	}
	fmt.Fprintln(w, title+":")
	headers := []string{"Column", "Type", "Distinct", "Values"}
	if isTerminal(w) {
		fmt.Fprintln(w, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
		return
	}
	for _, row := range rows {
		fmt.Fprintln(w, "  "+strings.Join(row, "\t"))
	}
}

func sample(values []string, n int) string {
	quoted := make([]string, 0, n)
	for i, v := range values {
		if i == n {
			quoted = append(quoted, "...")
			break
		}
		quoted = append(quoted, strconv.Quote(v))
	}
	return strings.Join(quoted, " ")
}
