package tui

import (
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const summaryRows = 10

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateSetup:
		body = m.budgetForm.View()
	case StateSummary:
		body = m.renderSummary()
	default:
		body = m.form.View()
	}

	sections := []string{
		m.renderHeader(),
		m.theme.RoundedBox.Render(m.panel.View()),
		"",
		body,
		"",
		m.renderStatus(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	return m.theme.Title.Render("🌿 Carbon Budget Tracker") + " " + m.theme.Subtitle.Render(m.accountName)
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return m.statusStyle.Render(m.status)
}

func (m Model) renderSummary() string {
	if m.summary == nil {
		return m.theme.StatusWarning.Render("No budget set.")
	}
	s := m.summary

	over := "NO"
	if s.OverBudget {
		over = m.theme.StatusError.Render("YES")
	}

	lines := []string{
		m.theme.Bold.Render("Summary"),
		fmt.Sprintf("Period:         %s", s.Period.DisplayName()),
		fmt.Sprintf("Initial budget: %s kg", model.FormatAmount(s.Initial)),
		fmt.Sprintf("Used:           %s kg (%s%%)", model.FormatAmount(s.Used), s.PercentageUsed.StringFixed(1)),
		fmt.Sprintf("Remaining:      %s kg", model.FormatAmount(s.Remaining)),
		fmt.Sprintf("Over budget?:   %s", over),
		"",
	}

	if len(s.Transactions) == 0 {
		lines = append(lines, m.theme.Subtitle.Render("No activities logged."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	start := max(0, len(s.Transactions)-summaryRows)
	if start > 0 {
		lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("... %d earlier activities", start)))
	}
	for _, txn := range s.Transactions[start:] {
		lines = append(lines, m.theme.Normal.Render(txn.String()))
	}
	lines = append(lines, m.theme.Bold.Render(fmt.Sprintf("Total: %s kg CO2e", s.TotalEmission().StringFixed(2))))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
