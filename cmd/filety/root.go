package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var envFile string
	var jsonOutput bool

	ctx := newCommandContext(&envFile, &jsonOutput)

	rootCmd := &cobra.Command{
		Use:           "filety",
		Short:         "Process extract files into typed CSV tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load settings from this .env file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print reports as JSON")

	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newDecodeCommand(ctx))
	rootCmd.AddCommand(newProcessCommand(ctx))
	rootCmd.AddCommand(newInboxCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))

	return rootCmd
}
