package engine

import (
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// OutcomeStatus tags the result of a log attempt.
type OutcomeStatus string

const (
	// OutcomeCommitted means the budget was charged and a transaction recorded.
	OutcomeCommitted OutcomeStatus = "committed"
	// OutcomeRejected means the emission did not fit and nothing changed.
	OutcomeRejected OutcomeStatus = "rejected"
)

// Outcome is the result of LogActivity. A rejection is a normal business
// result, not an error.
type Outcome struct {
	// PersistErr is set when the history write-through failed after commit.
	PersistErr  error
	Transaction *model.Transaction
	Status      OutcomeStatus
	Emission    decimal.Decimal
	Remaining   decimal.Decimal
}

// Committed reports whether the activity was recorded.
func (o Outcome) Committed() bool {
	return o.Status == OutcomeCommitted
}

// Reason explains a rejection. It is empty for committed outcomes.
func (o Outcome) Reason() string {
	if o.Committed() {
		return ""
	}
	return fmt.Sprintf("cannot log this activity: required emission %s kg CO₂ exceeds remaining budget %s kg CO₂",
		model.FormatAmount(o.Emission), model.FormatAmount(o.Remaining))
}
