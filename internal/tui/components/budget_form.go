package components

import (
	"strings"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// BudgetFormModel collects a budget amount and period.
type BudgetFormModel struct {
	theme  themes.Theme
	err    string
	period model.Period
	input  textinput.Model
}

// NewBudgetForm creates a focused form starting at period.
func NewBudgetForm(theme themes.Theme, period model.Period) BudgetFormModel {
	if !period.Valid() {
		period = model.PeriodWeek
	}
	input := textinput.New()
	input.Placeholder = "kg CO₂"
	input.CharLimit = 16
	input.Width = 16
	input.Focus()

	return BudgetFormModel{
		theme:  theme,
		period: period,
		input:  input,
	}
}

// Period returns the selected period.
func (m BudgetFormModel) Period() model.Period {
	return m.period
}

// Init starts the cursor blink.
func (m BudgetFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m BudgetFormModel) Update(msg tea.Msg) (BudgetFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			if m.period == model.PeriodWeek {
				m.period = model.PeriodMonth
			} else {
				m.period = model.PeriodWeek
			}
			return m, nil
		case "esc":
			return m, func() tea.Msg { return FormCancelledMsg{} }
		case "enter":
			amount, err := decimal.NewFromString(strings.TrimSpace(m.input.Value()))
			if err != nil {
				m.err = "Invalid number. Please enter a valid decimal."
				return m, nil
			}
			if !amount.IsPositive() {
				m.err = "Budget amount must be greater than zero."
				return m, nil
			}
			m.err = ""
			submitted := BudgetSubmittedMsg{Amount: amount, Period: m.period}
			return m, func() tea.Msg { return submitted }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the form.
func (m BudgetFormModel) View() string {
	week, month := "  WEEK  ", "  MONTH  "
	if m.period == model.PeriodWeek {
		week = m.theme.Selected.Render(week)
	} else {
		month = m.theme.Selected.Render(month)
	}

	lines := []string{
		m.theme.Bold.Render("Set up your carbon budget"),
		"",
		m.theme.Normal.Render("Amount: ") + m.input.View(),
		m.theme.Normal.Render("Period: ") + week + " " + month + m.theme.Subtitle.Render("  (tab to switch)"),
	}
	if m.err != "" {
		lines = append(lines, "", m.theme.StatusError.Render(m.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
