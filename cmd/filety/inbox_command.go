package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/application"
)

func newInboxCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Work with the storage inbox",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Process every file waiting in the inbox once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := application.Options{Archive: true, Database: true}
			return ctx.withApp(cmd, opts, func(app *application.App) error {
				results, err := app.Service.ProcessInbox(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.json() {
					return writeJSON(cmd, results)
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Inbox is empty")
					return nil
				}

				failed := 0
				rows := make([][]string, len(results))
				for i, r := range results {
					status, rowCount := "ok", ""
					if r.Result != nil {
						rowCount = strconv.Itoa(r.Result.Rows)
					}
					if r.Error != "" {
						status = r.Error
						failed++
					}
					rows[i] = []string{r.File, rowCount, status}
				}
				printTable(cmd, []string{"File", "Rows", "Status"}, rows,
					[]columnAlignment{alignLeft, alignRight})
				if failed > 0 {
					return fmt.Errorf("%d of %d inbox files failed", failed, len(results))
				}
				return nil
			})
		},
	})
	return cmd
}
