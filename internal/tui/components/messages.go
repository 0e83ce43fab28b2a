package components

import (
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// ActivitySubmittedMsg carries a completed activity form.
type ActivitySubmittedMsg struct {
	Quantity decimal.Decimal
	Category model.Category
}

// BudgetSubmittedMsg carries a completed budget form.
type BudgetSubmittedMsg struct {
	Amount decimal.Decimal
	Period model.Period
}

// FormCancelledMsg is sent when a form is abandoned with Esc.
type FormCancelledMsg struct{}
