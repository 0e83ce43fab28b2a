package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// RenderSummary renders a summary as a boxed terminal report.
func RenderSummary(summary model.Summary) string {
	pct := summary.PercentageUsed
	usage := UsageStyle(pct.InexactFloat64())

	over := "NO"
	if summary.OverBudget {
		over = ErrorStyle.Render("YES")
	}

	rows := []string{
		row("Period", summary.Period.DisplayName()),
		row("Initial budget", model.FormatAmount(summary.Initial)+" kg"),
		row("Used", usage.Render(model.FormatAmount(summary.Used)+" kg ("+pct.StringFixed(1)+"%)")),
		row("Remaining", model.FormatAmount(summary.Remaining)+" kg"),
		row("Over budget?", over),
		"",
	}

	if len(summary.Transactions) == 0 {
		rows = append(rows, SubtleStyle.Render("No activities logged."))
	} else {
		rows = append(rows, BoldStyle.Render(fmt.Sprintf("Activities (%d)", len(summary.Transactions))))
		for _, txn := range summary.Transactions {
			rows = append(rows, "  "+txn.String())
		}
	}

	return RenderBox(ChartIcon+" Carbon summary for "+summary.Name, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label+":"), value)
}

// RenderOutcome describes the result of a log attempt in one or two lines.
func RenderOutcome(out engine.Outcome) string {
	if !out.Committed() {
		return FormatError(out.Reason())
	}

	var sb strings.Builder
	sb.WriteString(FormatSuccess("Logged " + out.Transaction.String()))
	sb.WriteString("\n")
	sb.WriteString(FormatInfo("Remaining budget: " + model.FormatAmount(out.Remaining) + " kg CO₂"))
	if out.PersistErr != nil {
		sb.WriteString("\n")
		sb.WriteString(FormatWarning("History file was not updated: " + out.PersistErr.Error()))
	}
	return sb.String()
}

// RenderCategories lists the emission catalog, one member per line.
func RenderCategories() string {
	lines := make([]string, 0, len(model.AllCategories()))
	for _, c := range model.AllCategories() {
		lines = append(lines, "- "+c.String())
	}
	return strings.Join(lines, "\n")
}
