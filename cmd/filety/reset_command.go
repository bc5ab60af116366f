package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/application"
	"github.com/JonMunkholm/filety/internal/core"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [category...]",
		Short: "Empty loaded tables and accumulated inbox tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := args
			if all {
				categories = nil
				for _, c := range core.All() {
					categories = append(categories, c.Name)
				}
			}
			if len(categories) == 0 {
				return errors.New("name at least one category or pass --all")
			}
			for _, name := range categories {
				if _, err := core.Lookup(name); err != nil {
					return err
				}
			}
			if !yes {
				return fmt.Errorf("reset deletes data for %v; pass --yes to confirm", categories)
			}

			opts := application.Options{Archive: true, Database: true}
			return ctx.withApp(cmd, opts, func(app *application.App) error {
				if err := app.Resetter().Reset(cmd.Context(), categories...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d categories\n", len(categories))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	cmd.Flags().BoolVar(&all, "all", false, "Reset every registered category")
	return cmd
}
