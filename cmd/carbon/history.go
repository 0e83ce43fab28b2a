package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/carbon-budget/internal/cli"
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored activities",
		Long: `List the activities stored for the account in the order they were logged.
Filter by category, by the date the activity was logged or by a minimum
emission. The SHARE column is each activity's part of the listed total.`,
		Example: `  carbon history --limit 10
  carbon history --category CAR --since 2024-01-01
  carbon history --over 5 --detail`,
		Args: cobra.NoArgs,
		RunE: a.runHistory,
	}

	cmd.Flags().IntP("limit", "n", 0, "maximum number of activities to show (0 for all)")
	cmd.Flags().StringP("category", "c", "", "only show this category")
	cmd.Flags().String("since", "", "only show activities on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("over", "", "only show activities emitting more than this many kg CO₂")
	cmd.Flags().Bool("detail", false, "print every field of each activity instead of a table")

	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	rawCategory, _ := cmd.Flags().GetString("category")
	since, _ := cmd.Flags().GetString("since")
	rawOver, _ := cmd.Flags().GetString("over")
	detail, _ := cmd.Flags().GetBool("detail")

	name, err := a.cfg.RequireAccount()
	if err != nil {
		return err
	}

	filter := service.TransactionFilter{Limit: limit}
	if limit < 0 {
		return common.NewUserError("--limit cannot be negative", common.ErrInvalidArgument)
	}
	if rawCategory != "" {
		filter.Category, err = model.ParseCategory(rawCategory)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("unknown category %q", rawCategory), err)
		}
	}
	if since != "" {
		start, err := time.ParseInLocation(time.DateOnly, since, time.Local)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("invalid --since date %q; use YYYY-MM-DD", since), common.ErrInvalidArgument)
		}
		filter.StartDate = &start
	}

	var over *decimal.Decimal
	if rawOver != "" {
		threshold, err := decimal.NewFromString(rawOver)
		if err != nil || threshold.IsNegative() {
			return common.NewUserError(fmt.Sprintf("invalid --over %q: enter a non-negative number", rawOver), common.ErrInvalidArgument)
		}
		over = &threshold
		// The threshold is applied after loading, so the limit is too.
		filter.Limit = 0
	}

	ctx := cmd.Context()
	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.GetTransactions(ctx, name, filter)
	if err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}

	if over != nil {
		txns = aboveThreshold(txns, *over, limit)
	}

	total, err := store.GetTransactionCount(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to count activities: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(txns) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No activities found."))
		return nil
	}

	if detail {
		for _, txn := range txns {
			fmt.Fprintln(out, txn.DetailedString())
		}
	} else if err := printHistoryTable(out, txns); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Showing %d of %d activities", len(txns), total)))
	return nil
}

// aboveThreshold keeps transactions emitting strictly more than threshold,
// stopping at limit when it is positive.
func aboveThreshold(txns []model.Transaction, threshold decimal.Decimal, limit int) []model.Transaction {
	kept := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if !txn.ExceedsThreshold(threshold) {
			continue
		}
		kept = append(kept, txn)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return kept
}

func printHistoryTable(out io.Writer, txns []model.Transaction) error {
	listed := decimal.Zero
	for _, txn := range txns {
		listed = listed.Add(txn.Emission())
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LOGGED\tCATEGORY\tQUANTITY\tEMISSION\tSHARE")
	for _, txn := range txns {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s kg CO₂\t%s%%\n",
			txn.Timestamp(), txn.Category().Identifier(),
			txn.Quantity().String(), txn.Unit(), txn.Emission().String(),
			txn.Percentage(listed).StringFixed(1))
	}
	return w.Flush()
}
