package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/filety/internal/core"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List registered categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := core.All()
			if ctx.json() {
				return writeJSON(cmd, categorySummaries(all))
			}
			rows := make([][]string, len(all))
			for i, c := range all {
				rows[i] = []string{
					c.Name,
					c.Group,
					c.Label,
					strconv.Itoa(len(c.Columns)),
					strings.Join(c.NaturalKey, ", "),
					strings.Join(c.SplitBy, ", "),
				}
			}
			printTable(cmd, []string{"Name", "Group", "Label", "Columns", "Natural key", "Split by"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
			return nil
		},
	}
	cmd.AddCommand(newCategoryShowCommand(ctx))
	return cmd
}

func newCategoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <category>",
		Short: "Show the columns of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := core.Lookup(args[0])
			if err != nil {
				return err
			}
			if ctx.json() {
				return writeJSON(cmd, categorySummaries([]core.Category{c})[0])
			}
			key := make(map[string]bool, len(c.NaturalKey))
			for _, k := range c.NaturalKey {
				key[k] = true
			}
			rows := make([][]string, len(c.Columns))
			for i, col := range c.Columns {
				mark := ""
				if key[col.Name] {
					mark = "key"
				}
				rows[i] = []string{strconv.Itoa(i + 1), col.Name, col.Type.String(), mark}
			}
			printTable(cmd, []string{"#", "Column", "Type", ""}, rows, []columnAlignment{alignRight})
			return nil
		},
	}
}

type columnSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type categorySummary struct {
	Name       string          `json:"name"`
	Group      string          `json:"group,omitempty"`
	Label      string          `json:"label,omitempty"`
	Columns    []columnSummary `json:"columns"`
	NaturalKey []string        `json:"natural_key,omitempty"`
	SplitBy    []string        `json:"split_by,omitempty"`
}

func categorySummaries(cats []core.Category) []categorySummary {
	out := make([]categorySummary, len(cats))
	for i, c := range cats {
		cols := make([]columnSummary, len(c.Columns))
		for j, col := range c.Columns {
			cols[j] = columnSummary{Name: col.Name, Type: col.Type.String()}
		}
		out[i] = categorySummary{
			Name:       c.Name,
			Group:      c.Group,
			Label:      c.Label,
			Columns:    cols,
			NaturalKey: c.NaturalKey,
			SplitBy:    c.SplitBy,
		}
	}
	return out
}
