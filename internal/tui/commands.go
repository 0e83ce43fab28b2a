package tui

import (
	"context"
	"time"

	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

const storeTimeout = 10 * time.Second

func takeSnapshot(tracker *engine.Tracker) snapshot {
	account := tracker.Account()
	s := snapshot{
		budget: account.Budget(),
		count:  len(account.Transactions()),
	}
	if summary, err := account.Summarize(); err == nil {
		s.summary = &summary
	}
	return s
}

func (m Model) logActivity(category model.Category, quantity decimal.Decimal) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		out, err := tracker.LogActivity(ctx, category, quantity)
		return activityLoggedMsg{outcome: out, err: err, state: takeSnapshot(tracker)}
	}
}

func (m Model) configureBudget(amount decimal.Decimal, period model.Period) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := tracker.ConfigureBudget(ctx, amount, period)
		return budgetChangedMsg{action: "Budget set", err: err, state: takeSnapshot(tracker)}
	}
}

func (m Model) resetBudget() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := tracker.ResetBudget(ctx)
		return budgetChangedMsg{action: "Budget reset", err: err, state: takeSnapshot(tracker)}
	}
}

func (m Model) saveHistory() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		return historySavedMsg{err: tracker.SaveHistory(ctx)}
	}
}
