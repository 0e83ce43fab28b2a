// Package engine orchestrates budget enforcement for a single account.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/emission"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// Account owns one budget and the ordered history of logged activity.
// It is not safe for concurrent use.
type Account struct {
	history      HistoryWriter
	budget       *model.Budget
	now          func() time.Time
	name         string
	transactions []model.Transaction
}

// Option configures an Account.
type Option func(*Account)

// WithHistoryWriter sets the collaborator notified after each commit.
func WithHistoryWriter(w HistoryWriter) Option {
	return func(a *Account) {
		a.history = w
	}
}

// WithClock overrides the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(a *Account) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAccount creates an account with no budget and no history.
func NewAccount(name string, opts ...Option) (*Account, error) {
	return RestoreAccount(name, nil, nil, opts...)
}

// RestoreAccount rebuilds an account from stored state. budget may be nil.
func RestoreAccount(name string, budget *model.Budget, transactions []model.Transaction, opts ...Option) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, common.InvalidArgument("name cannot be empty")
	}

	a := &Account{
		name:         name,
		budget:       budget.Clone(),
		transactions: append([]model.Transaction(nil), transactions...),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the account owner's name.
func (a *Account) Name() string {
	return a.name
}

// Budget returns a copy of the current budget, or nil if none is configured.
func (a *Account) Budget() *model.Budget {
	return a.budget.Clone()
}

// Transactions returns the history in chronological order.
func (a *Account) Transactions() []model.Transaction {
	return append([]model.Transaction(nil), a.transactions...)
}

// ConfigureBudget replaces any existing budget with a fresh one.
func (a *Account) ConfigureBudget(amount decimal.Decimal, period model.Period) error {
	if !amount.IsPositive() {
		return common.InvalidArgument("budget amount must be greater than zero")
	}
	if !period.Valid() {
		return common.InvalidArgument("period cannot be empty")
	}

	budget, err := model.NewBudget(amount, period)
	if err != nil {
		return err
	}
	a.budget = budget
	return nil
}

// ResetBudget restores the full allowance for a new period.
func (a *Account) ResetBudget() error {
	if a.budget == nil {
		return fmt.Errorf("%w: %w", common.ErrIllegalState, common.ErrNoBudget)
	}
	a.budget.Reset()
	return nil
}

// LogActivity attempts to record quantity units of category against the budget.
// Validation failures are returned as errors and leave the account untouched.
// An unaffordable activity yields a rejected Outcome and also changes nothing.
func (a *Account) LogActivity(ctx context.Context, category model.Category, quantity decimal.Decimal) (Outcome, error) {
	if a.budget == nil {
		return Outcome{}, fmt.Errorf("%w: set a budget before logging activities: %w", common.ErrIllegalState, common.ErrNoBudget)
	}
	if !quantity.IsPositive() {
		return Outcome{}, common.InvalidArgument("quantity must be a positive number")
	}

	amount, err := emission.ComputeEmission(category, quantity)
	if err != nil {
		return Outcome{}, err
	}

	if !a.budget.CanAfford(amount) {
		return a.rejected(amount), nil
	}

	// Build the record before touching the budget so a failure here leaves
	// both untouched.
	txn, err := model.NewTransaction(category, quantity, amount, a.now())
	if err != nil {
		return Outcome{}, err
	}

	charged, err := a.budget.Charge(amount)
	if err != nil {
		return Outcome{}, err
	}
	if !charged {
		return a.rejected(amount), nil
	}
	a.transactions = append(a.transactions, txn)

	common.LogDebug("Activity logged", common.Fields{
		"account":   a.name,
		"category":  category.Identifier(),
		"emission":  amount.String(),
		"remaining": a.budget.Remaining().String(),
	})

	out := Outcome{
		Status:      OutcomeCommitted,
		Transaction: &txn,
		Emission:    amount,
		Remaining:   a.budget.Remaining(),
	}
	out.PersistErr = a.SaveHistory(ctx)
	return out, nil
}

// Summarize returns a snapshot of the budget and history.
func (a *Account) Summarize() (model.Summary, error) {
	if a.budget == nil {
		return model.Summary{}, common.ErrNoBudget
	}
	return model.NewSummary(a.name, a.budget, a.transactions), nil
}

// SaveHistory hands the current snapshot to the history writer. Failures are
// logged and returned wrapped in ErrPersistence; in-memory state is unaffected.
func (a *Account) SaveHistory(ctx context.Context) error {
	if a.history == nil {
		return nil
	}
	summary, err := a.Summarize()
	if err != nil {
		return err
	}
	if err := a.history.WriteHistory(ctx, summary); err != nil {
		common.LogError(err, "Failed to save history", common.Fields{"account": a.name})
		return fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	return nil
}

func (a *Account) rejected(amount decimal.Decimal) Outcome {
	return Outcome{
		Status:    OutcomeRejected,
		Emission:  amount,
		Remaining: a.budget.Remaining(),
	}
}
