package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/ingest"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Log activities from a CSV file",
		Long: `Log a batch of activities from a CSV file with the columns
category,quantity. A header row and lines starting with # are ignored.

Rows are logged in file order. Rows that do not fit in the remaining
budget are rejected and skipped, like single 'carbon log' calls.`,
		Example: "  carbon import week.csv --account alice",
		Args:    cobra.ExactArgs(1),
		RunE:    a.runImport,
	}

	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	f, err := os.Open(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("cannot open %s", args[0]), err)
	}
	defer func() { _ = f.Close() }()

	rows, rowErrs, err := ingest.ReadActivities(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if tracker.Account().Budget() == nil {
		return noBudgetError(common.ErrNoBudget)
	}

	var progress func()
	if !noProgress && len(rows) > 0 {
		bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(rows), "Logging activities")
		progress = func() { cli.Step(bar) }
	}

	result, applyErr := ingest.Apply(ctx, tracker, rows, progress)

	out := cmd.OutOrStdout()
	for _, rowErr := range append(rowErrs, result.Invalid...) {
		fmt.Fprintln(out, cli.FormatWarning("Skipped "+rowErr.Error()))
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Logged %d activities (%s kg CO₂)",
		result.Committed, model.FormatAmount(result.Emission))))
	if result.Rejected > 0 {
		fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("Rejected %d activities that exceeded the remaining budget", result.Rejected)))
	}
	if budget := tracker.Account().Budget(); budget != nil {
		fmt.Fprintln(out, cli.FormatInfo("Remaining budget: "+model.FormatAmount(budget.Remaining())+" kg CO₂"))
	}

	common.LogInfo("Import finished", common.Fields{
		"file":      args[0],
		"committed": result.Committed,
		"rejected":  result.Rejected,
		"invalid":   len(rowErrs) + len(result.Invalid),
	})

	if applyErr != nil {
		return fmt.Errorf("import stopped after %d activities: %w", result.Committed, applyErr)
	}
	return nil
}
