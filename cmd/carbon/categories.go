package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List activity categories and emission factors",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(cli.LeafIcon+" Activity categories"))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tFACTOR\tUNIT")
			for _, c := range model.AllCategories() {
				fmt.Fprintf(w, "%s\t%s\tkg CO₂ per %s\n", c.Identifier(), c.EmissionFactor().String(), c.Unit())
			}
			return w.Flush()
		},
	}
}
