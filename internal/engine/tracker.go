package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// Tracker binds an Account to a Store so every change made through it is
// written back. Frontends work through a Tracker rather than a bare Account.
type Tracker struct {
	account *Account
	store   Store
}

// OpenTracker loads the named account from store, creating it if needed.
func OpenTracker(ctx context.Context, store Store, name string, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	// Validate the name before touching storage.
	if _, err := NewAccount(name); err != nil {
		return nil, err
	}
	if err := store.EnsureAccount(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to open account: %w", err)
	}

	record, err := store.LoadAccount(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	account, err := RestoreAccount(record.Name, record.Budget, record.Transactions, opts...)
	if err != nil {
		return nil, err
	}
	return &Tracker{account: account, store: store}, nil
}

// Account exposes the underlying account for read access.
func (t *Tracker) Account() *Account {
	return t.account
}

// ConfigureBudget replaces the budget and stores it.
func (t *Tracker) ConfigureBudget(ctx context.Context, amount decimal.Decimal, period model.Period) error {
	if err := t.account.ConfigureBudget(amount, period); err != nil {
		return err
	}
	if err := t.store.SaveBudget(ctx, t.account.Name(), t.account.Budget()); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// ResetBudget restores the full allowance and stores the new balance.
func (t *Tracker) ResetBudget(ctx context.Context) error {
	if err := t.account.ResetBudget(); err != nil {
		return err
	}
	if err := t.store.SaveBudget(ctx, t.account.Name(), t.account.Budget()); err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// LogActivity runs the account's logging protocol and stores committed
// activity. A storage failure is returned together with the committed
// outcome; the in-memory commit is not undone.
func (t *Tracker) LogActivity(ctx context.Context, category model.Category, quantity decimal.Decimal) (Outcome, error) {
	out, err := t.account.LogActivity(ctx, category, quantity)
	if err != nil || !out.Committed() {
		return out, err
	}

	if err := t.store.RecordTransaction(ctx, t.account.Name(), *out.Transaction, t.account.Budget()); err != nil {
		return out, fmt.Errorf("activity logged but could not be stored: %w", err)
	}
	return out, nil
}

// Summarize returns the account summary.
func (t *Tracker) Summarize() (model.Summary, error) {
	return t.account.Summarize()
}

// SaveHistory writes the history report through the account's HistoryWriter.
func (t *Tracker) SaveHistory(ctx context.Context) error {
	return t.account.SaveHistory(ctx)
}
