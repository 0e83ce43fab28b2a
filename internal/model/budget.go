package model

import (
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Budget is the emission allowance for one period. The remaining balance may
// go negative; that over-budget state is valid and observable.
type Budget struct {
	initial   decimal.Decimal
	remaining decimal.Decimal
	period    Period
}

// NewBudget creates a budget with the full allowance remaining.
func NewBudget(initial decimal.Decimal, period Period) (*Budget, error) {
	return RestoreBudget(initial, initial, period)
}

// RestoreBudget rebuilds a stored budget with its remaining balance.
func RestoreBudget(initial, remaining decimal.Decimal, period Period) (*Budget, error) {
	if !initial.IsPositive() {
		return nil, common.InvalidArgument("budget must be positive, got %s", initial)
	}
	if !period.Valid() {
		return nil, common.InvalidArgument("period cannot be empty")
	}
	return &Budget{
		initial:   initial,
		remaining: remaining,
		period:    period,
	}, nil
}

// CanAfford reports whether emission fits in the remaining balance.
func (b *Budget) CanAfford(emission decimal.Decimal) bool {
	return emission.LessThanOrEqual(b.remaining)
}

// Deduct subtracts emission unconditionally and reports whether the balance
// is still non-negative afterwards.
func (b *Budget) Deduct(emission decimal.Decimal) (bool, error) {
	if emission.IsNegative() {
		return false, common.InvalidArgument("emission cannot be negative: %s", emission)
	}
	b.remaining = b.remaining.Sub(emission)
	return !b.remaining.IsNegative(), nil
}

// Charge deducts emission only if it is affordable and reports whether it did.
// Checking and deducting happen in one step.
func (b *Budget) Charge(emission decimal.Decimal) (bool, error) {
	if emission.IsNegative() {
		return false, common.InvalidArgument("emission cannot be negative: %s", emission)
	}
	if !b.CanAfford(emission) {
		return false, nil
	}
	b.remaining = b.remaining.Sub(emission)
	return true, nil
}

// Reset restores the full allowance for a new period.
func (b *Budget) Reset() {
	b.remaining = b.initial
}

// Initial returns the allowance the budget was configured with.
func (b *Budget) Initial() decimal.Decimal { return b.initial }

// Remaining returns the current balance, possibly negative.
func (b *Budget) Remaining() decimal.Decimal { return b.remaining }

// Period returns the recurrence window.
func (b *Budget) Period() Period { return b.period }

// Used returns initial minus remaining.
func (b *Budget) Used() decimal.Decimal {
	return b.initial.Sub(b.remaining)
}

// PercentageUsed returns Used as a percentage of the initial allowance.
func (b *Budget) PercentageUsed() decimal.Decimal {
	return b.Used().Div(b.initial).Mul(hundred)
}

// IsOverBudget reports whether the balance has gone negative.
func (b *Budget) IsOverBudget() bool {
	return b.remaining.IsNegative()
}

// Clone returns an independent copy.
func (b *Budget) Clone() *Budget {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}
