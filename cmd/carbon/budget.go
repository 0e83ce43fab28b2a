package main

import (
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage the account carbon budget",
	}

	cmd.AddCommand(a.budgetSetCmd())
	cmd.AddCommand(a.budgetResetCmd())
	cmd.AddCommand(a.budgetShowCmd())

	return cmd
}

func (a *app) budgetSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the budget allowance in kg CO₂",
		Long: `Set a new budget for the account. The remaining allowance starts at the
full amount. Logged activities are kept.`,
		Example: "  carbon budget set 100 --period WEEK",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runBudgetSet,
	}

	cmd.Flags().StringP("period", "p", "", "budget period: WEEK or MONTH (default: budget.default_period)")

	return cmd
}

func (a *app) runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[0], "budget amount")
	if err != nil {
		return err
	}

	period := a.cfg.DefaultPeriod
	if raw, _ := cmd.Flags().GetString("period"); raw != "" {
		period, err = model.ParsePeriod(raw)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("invalid period %q; use WEEK or MONTH", raw), err)
		}
	}

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := tracker.ConfigureBudget(ctx, amount, period); err != nil {
		return err
	}

	common.LogInfo("Budget configured", common.Fields{
		"account": tracker.Account().Name(),
		"amount":  amount.String(),
		"period":  string(period),
	})
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Budget set: %s kg CO₂ per %s",
		model.FormatAmount(amount), period.DisplayName())))
	return nil
}

func (a *app) budgetResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the full allowance for a new period",
		Long: `Restore the remaining allowance to the initial amount. Logged
activities are kept. A checkpoint of the database is taken first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCheckpoint, _ := cmd.Flags().GetBool("no-checkpoint")

			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if tracker.Account().Budget() == nil {
				return noBudgetError(common.ErrNoBudget)
			}
			if !noCheckpoint {
				autoCheckpoint(ctx, store, "budget-reset")
			}

			if err := tracker.ResetBudget(ctx); err != nil {
				return noBudgetError(err)
			}

			remaining := tracker.Account().Budget().Remaining()
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Budget reset. Remaining: "+model.FormatAmount(remaining)+" kg CO₂"))
			return nil
		},
	}

	cmd.Flags().Bool("no-checkpoint", false, "Skip the automatic checkpoint")

	return cmd
}

func (a *app) budgetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current budget state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tracker, store, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			budget := tracker.Account().Budget()
			if budget == nil {
				return noBudgetError(common.ErrNoBudget)
			}

			pct := budget.PercentageUsed()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(cli.LeafIcon+" "+budget.Period().DisplayName()+" budget"))
			fmt.Fprintf(out, "Period:    %d days\n", budget.Period().Days())
			fmt.Fprintf(out, "Initial:   %s kg CO₂\n", model.FormatAmount(budget.Initial()))
			fmt.Fprintf(out, "Used:      %s\n", cli.UsageStyle(pct.InexactFloat64()).Render(
				model.FormatAmount(budget.Used())+" kg CO₂ ("+pct.StringFixed(1)+"%)"))
			fmt.Fprintf(out, "Remaining: %s kg CO₂\n", model.FormatAmount(budget.Remaining()))
			return nil
		},
	}
}
