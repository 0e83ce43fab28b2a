package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func (a *app) summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the budget summary and save the history report",
		Long: `Print the account summary: period, initial budget, usage, remaining
allowance and every logged activity. The same summary is written to
<account>_carbon_history.txt in the history directory.`,
		Args: cobra.NoArgs,
		RunE: a.runSummary,
	}

	cmd.Flags().Bool("no-save", false, "Print the summary without rewriting the history report")

	return cmd
}

func (a *app) runSummary(cmd *cobra.Command, _ []string) error {
	noSave, _ := cmd.Flags().GetBool("no-save")

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := tracker.Summarize()
	if err != nil {
		return noBudgetError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderSummary(summary))

	if noSave {
		return nil
	}
	if err := tracker.SaveHistory(ctx); err != nil {
		if errors.Is(err, common.ErrPersistence) {
			fmt.Fprintln(out, cli.FormatWarning("History file was not updated: "+err.Error()))
			return nil
		}
		return err
	}
	fmt.Fprintln(out, cli.FormatInfo("History saved."))
	return nil
}

func (a *app) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the history report as text or PDF",
		Long: `Write the account summary to <account>_carbon_history.txt, or to
<account>_carbon_history.pdf with --format pdf, and print the path of
the written file.`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}

	cmd.Flags().StringP("output", "o", "", "directory to write the report to (default: history.dir)")
	cmd.Flags().StringP("format", "f", "text", "report format: text or pdf")

	return cmd
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "pdf" {
		return common.NewUserError(fmt.Sprintf("unknown report format %q: use text or pdf", format), nil)
	}
	if dir == "" {
		dir = a.cfg.HistoryDir
	}

	ctx := cmd.Context()
	tracker, store, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	summary, err := tracker.Summarize()
	if err != nil {
		return noBudgetError(err)
	}

	writer := report.NewFileWriter(afero.NewOsFs(), dir)
	path := writer.Path(summary.Name)
	if format == "pdf" {
		path, err = writer.WritePDF(ctx, summary)
	} else {
		err = writer.WriteHistory(ctx, summary)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Report written to "+path))
	return nil
}
