package components

import (
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// BudgetPanelModel shows how much of the budget has been used.
type BudgetPanelModel struct {
	theme  themes.Theme
	budget *model.Budget
	bar    progress.Model
	count  int
	width  int
}

// NewBudgetPanel creates an empty panel.
func NewBudgetPanel(theme themes.Theme) BudgetPanelModel {
	bar := progress.New(
		progress.WithGradient(theme.GradientStart, theme.GradientEnd),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	return BudgetPanelModel{
		theme: theme,
		bar:   bar,
		width: 60,
	}
}

// SetBudget replaces the displayed budget. A nil budget shows the setup hint.
func (m *BudgetPanelModel) SetBudget(budget *model.Budget, transactionCount int) {
	m.budget = budget
	m.count = transactionCount
}

// Resize sets the panel width.
func (m *BudgetPanelModel) Resize(width int) {
	m.width = width
	m.bar.Width = max(10, min(width-4, 60))
}

// Fraction returns the used share of the budget clamped to [0, 1].
func (m BudgetPanelModel) Fraction() float64 {
	if m.budget == nil {
		return 0
	}
	f := m.budget.PercentageUsed().InexactFloat64() / 100
	return max(0, min(f, 1))
}

// View renders the panel.
func (m BudgetPanelModel) View() string {
	if m.budget == nil {
		return m.theme.StatusWarning.Render("No budget configured")
	}

	pct := m.budget.PercentageUsed()
	title := m.theme.Bold.Render(fmt.Sprintf("%s budget", m.budget.Period().DisplayName()))

	usage := fmt.Sprintf("Used %s of %s kg CO₂ (%s%%)",
		model.FormatAmount(m.budget.Used()),
		model.FormatAmount(m.budget.Initial()),
		pct.StringFixed(1))

	status := m.theme.StatusSuccess.Render(fmt.Sprintf("Remaining %s kg CO₂", model.FormatAmount(m.budget.Remaining())))
	switch {
	case m.budget.IsOverBudget():
		status = m.theme.StatusError.Render(fmt.Sprintf("Over budget by %s kg CO₂", model.FormatAmount(m.budget.Remaining().Neg())))
	case pct.InexactFloat64() >= 80:
		status = m.theme.StatusWarning.Render(fmt.Sprintf("Remaining %s kg CO₂", model.FormatAmount(m.budget.Remaining())))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.bar.ViewAs(m.Fraction()),
		m.theme.Normal.Render(usage),
		status,
		m.theme.Subtitle.Render(fmt.Sprintf("%d activities logged", m.count)),
	)
}
