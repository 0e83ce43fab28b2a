package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// FormMode is the step the activity form is on.
type FormMode int

const (
	ModeSelectingCategory FormMode = iota
	ModeEnteringQuantity
)

// ActivityFormModel picks a category and then a quantity.
type ActivityFormModel struct {
	theme      themes.Theme
	err        string
	categories []model.Category
	input      textinput.Model
	mode       FormMode
	cursor     int
}

// NewActivityForm creates a form over the full emission catalog.
func NewActivityForm(theme themes.Theme) ActivityFormModel {
	input := textinput.New()
	input.Placeholder = "quantity"
	input.CharLimit = 16
	input.Width = 16

	return ActivityFormModel{
		theme:      theme,
		categories: model.AllCategories(),
		input:      input,
	}
}

// Mode returns the current step.
func (m ActivityFormModel) Mode() FormMode {
	return m.mode
}

// Typing reports whether key presses go to the text input.
func (m ActivityFormModel) Typing() bool {
	return m.mode == ModeEnteringQuantity
}

// Selected returns the highlighted category.
func (m ActivityFormModel) Selected() model.Category {
	return m.categories[m.cursor]
}

// Reset returns to category selection, keeping the cursor.
func (m *ActivityFormModel) Reset() {
	m.mode = ModeSelectingCategory
	m.err = ""
	m.input.Reset()
	m.input.Blur()
}

// Update handles key presses.
func (m ActivityFormModel) Update(msg tea.Msg) (ActivityFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == ModeEnteringQuantity {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case ModeSelectingCategory:
		return m.handleCategoryKeys(keyMsg)
	case ModeEnteringQuantity:
		return m.handleQuantityKeys(keyMsg)
	}
	return m, nil
}

func (m ActivityFormModel) handleCategoryKeys(msg tea.KeyMsg) (ActivityFormModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.categories) - 1
	case "enter":
		m.mode = ModeEnteringQuantity
		m.err = ""
		m.input.Placeholder = m.Selected().Unit()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m ActivityFormModel) handleQuantityKeys(msg tea.KeyMsg) (ActivityFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Reset()
		return m, func() tea.Msg { return FormCancelledMsg{} }
	case "enter":
		quantity, err := decimal.NewFromString(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.err = "Invalid number. Please enter a valid decimal."
			return m, nil
		}
		submitted := ActivitySubmittedMsg{Category: m.Selected(), Quantity: quantity}
		m.Reset()
		return m, func() tea.Msg { return submitted }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the form.
func (m ActivityFormModel) View() string {
	lines := []string{m.theme.Bold.Render("Log emission activity")}

	for i, c := range m.categories {
		line := fmt.Sprintf("  %s", c.String())
		if i == m.cursor {
			line = m.theme.Selected.Render(fmt.Sprintf("▸ %s", c.String()))
		}
		lines = append(lines, line)
	}

	if m.mode == ModeEnteringQuantity {
		lines = append(lines, "",
			m.theme.Normal.Render(fmt.Sprintf("Quantity of %s (%s): ", m.Selected().Identifier(), m.Selected().Unit()))+m.input.View())
	}
	if m.err != "" {
		lines = append(lines, m.theme.StatusError.Render(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
