package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/core"
	"github.com/JonMunkholm/filety/internal/frame"
)

// newDecodeCommand prints the raw frame a category reader produces, before
// any typing or checks. Useful when a mainframe layout does not line up.
func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var null string

	cmd := &cobra.Command{
		Use:   "decode <category> <file>",
		Short: "Decode a file with its category reader, without processing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := core.Lookup(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			data, err := core.Decompress(raw, cfg.Processing.MaxFileSize)
			if err != nil {
				return err
			}
			f, err := c.Read(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[1], err)
			}
			if limit > 0 && f.Len() > limit {
				f = f.Slice(0, limit)
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return frame.WriteCSV(cmd.OutOrStdout(), f, null)
			}
			rows := make([][]string, f.Len())
			for i := range rows {
				cells := f.Row(i)
				row := make([]string, len(cells))
				for j, cell := range cells {
					if cell.IsNull() {
						row[j] = null
					} else {
						row[j] = cell.String()
					}
				}
				rows[i] = row
			}
			printTable(cmd, f.Columns(), rows, nil)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to print (0 for all)")
	cmd.Flags().StringVar(&null, "null", frame.DefaultNull, "Token printed for missing cells")
	return cmd
}
