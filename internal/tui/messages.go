package tui

import (
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
)

// snapshot is a copy of tracker state taken on the command goroutine so
// View never reads the live account.
type snapshot struct {
	budget  *model.Budget
	summary *model.Summary
	count   int
}

type activityLoggedMsg struct {
	err     error
	outcome engine.Outcome
	state   snapshot
}

type budgetChangedMsg struct {
	err    error
	action string
	state  snapshot
}

type historySavedMsg struct {
	err error
}
