// Package tui is the full-screen bubbletea frontend for logging activity
// against a carbon budget.
package tui

import (
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/tui/components"
	"github.com/Veraticus/carbon-budget/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the current screen.
type State int

const (
	StateSetup State = iota
	StateLog
	StateSummary
)

// Model holds the main TUI state.
type Model struct {
	theme       themes.Theme
	statusStyle lipgloss.Style
	tracker     *engine.Tracker
	summary     *model.Summary
	status      string
	accountName string
	keymap      KeyMap
	help        help.Model
	form        components.ActivityFormModel
	budgetForm  components.BudgetFormModel
	panel       components.BudgetPanelModel
	config      Config
	hasBudget   bool
	state       State
	width       int
	height      int
	busy        bool
	quitting    bool
}

func newModel(cfg Config) Model {
	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		theme:       cfg.Theme,
		statusStyle: cfg.Theme.StatusInfo,
		tracker:     cfg.Tracker,
		accountName: cfg.Tracker.Account().Name(),
		keymap:      DefaultKeyMap(),
		help:        h,
		form:        components.NewActivityForm(cfg.Theme),
		budgetForm:  components.NewBudgetForm(cfg.Theme, cfg.DefaultPeriod),
		panel:       components.NewBudgetPanel(cfg.Theme),
		config:      cfg,
		width:       cfg.Width,
		height:      cfg.Height,
		state:       StateLog,
	}
	m.apply(takeSnapshot(cfg.Tracker))
	m.panel.Resize(m.width)

	if !m.hasBudget {
		m.state = StateSetup
	}
	return m
}

// Init starts the cursor blink when the budget form is showing.
func (m Model) Init() tea.Cmd {
	if m.state == StateSetup {
		return m.budgetForm.Init()
	}
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.panel.Resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)

	case components.ActivitySubmittedMsg:
		m.busy = true
		m.setStatus(m.theme.StatusInfo, "Logging activity...")
		return m, m.logActivity(msg.Category, msg.Quantity)

	case components.BudgetSubmittedMsg:
		m.busy = true
		m.setStatus(m.theme.StatusInfo, "Saving budget...")
		return m, m.configureBudget(msg.Amount, msg.Period)

	case components.FormCancelledMsg:
		if m.state == StateSetup && m.hasBudget {
			m.state = StateLog
		}
		m.setStatus(m.theme.Subtitle, "Cancelled")
		return m, nil

	case activityLoggedMsg:
		m.busy = false
		m.apply(msg.state)
		m.showOutcome(msg)
		return m, nil

	case budgetChangedMsg:
		m.busy = false
		m.apply(msg.state)
		if msg.err != nil {
			m.setStatus(m.theme.StatusError, "Error: "+msg.err.Error())
			return m, nil
		}
		m.state = StateLog
		m.setStatus(m.theme.StatusSuccess, msg.action+". Remaining: "+model.FormatAmount(msg.state.budget.Remaining())+" kg CO₂")
		return m, nil

	case historySavedMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(m.theme.StatusWarning, "Could not save history: "+msg.err.Error())
		} else {
			m.setStatus(m.theme.StatusSuccess, "History saved")
		}
		return m, nil
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	switch m.state {
	case StateSetup:
		m.budgetForm, cmd = m.budgetForm.Update(msg)
	case StateLog:
		m.form, cmd = m.form.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case StateSetup:
		m.budgetForm, cmd = m.budgetForm.Update(msg)
		return m, cmd

	case StateLog:
		if m.form.Typing() {
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if handled, next, cmd := m.handleShortcut(msg); handled {
			return next, cmd
		}
		m.form, cmd = m.form.Update(msg)
		return m, cmd

	case StateSummary:
		if key.Matches(msg, m.keymap.Back) || key.Matches(msg, m.keymap.Summary) {
			m.state = StateLog
			return m, nil
		}
		if handled, next, cmd := m.handleShortcut(msg); handled {
			return next, cmd
		}
	}
	return m, nil
}

func (m Model) handleShortcut(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return true, m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return true, m, nil
	case key.Matches(msg, m.keymap.Summary):
		m.state = StateSummary
		m.busy = true
		return true, m, m.saveHistory()
	case key.Matches(msg, m.keymap.Reset):
		m.busy = true
		return true, m, m.resetBudget()
	case key.Matches(msg, m.keymap.Save):
		m.busy = true
		return true, m, m.saveHistory()
	case key.Matches(msg, m.keymap.Budget):
		m.state = StateSetup
		m.budgetForm = components.NewBudgetForm(m.theme, m.config.DefaultPeriod)
		return true, m, m.budgetForm.Init()
	}
	return false, m, nil
}

func (m *Model) apply(s snapshot) {
	m.hasBudget = s.budget != nil
	m.summary = s.summary
	m.panel.SetBudget(s.budget, s.count)
}

func (m *Model) showOutcome(msg activityLoggedMsg) {
	out := msg.outcome
	switch {
	case msg.err != nil && !out.Committed():
		m.setStatus(m.theme.StatusError, "Error: "+msg.err.Error())
	case !out.Committed():
		m.setStatus(m.theme.StatusError, out.Reason())
	case msg.err != nil:
		m.setStatus(m.theme.StatusWarning, "Logged, but "+msg.err.Error())
	case out.PersistErr != nil:
		m.setStatus(m.theme.StatusWarning, "Logged, but the history file was not updated")
	default:
		m.setStatus(m.theme.StatusSuccess, "Logged "+out.Transaction.String())
	}
}

func (m *Model) setStatus(style lipgloss.Style, text string) {
	m.statusStyle = style
	m.status = text
}
