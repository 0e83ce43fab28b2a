package main

import (
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <CATEGORY> <quantity>",
		Short: "Log an activity against the budget",
		Long: `Convert an activity into kg CO2e and charge it to the account budget.

The activity is only recorded when its emission fits in the remaining
budget. A rejected activity leaves the budget and history untouched.
Run 'carbon categories' to see the available categories and units.`,
		Example: `  carbon log CAR 12.5 --account alice
  carbon log MEAL_VEGAN 2`,
		Args: cobra.ExactArgs(2),
		RunE: a.runLog,
	}
}

func (a *app) runLog(cmd *cobra.Command, args []string) error {
	category, err := model.ParseCategory(args[0])
	if err != nil {
		return common.NewUserError(
			fmt.Sprintf("unknown category %q; run 'carbon categories' to list them", args[0]), err)
	}
	quantity, err := parseAmount(args[1], "quantity")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	outcome, err := tracker.LogActivity(ctx, category, quantity)
	if outcome.Status != "" {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderOutcome(outcome))
	}
	if err != nil {
		return noBudgetError(err)
	}
	return nil
}
