package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/service"
	"github.com/shopspring/decimal"
)

// EnsureAccount creates the account row if it does not exist yet.
func (s *SQLiteStorage) EnsureAccount(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// ListAccounts returns all account names in alphabetical order.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LoadAccount reads an account with its budget and full history.
// It returns common.ErrNotFound when the account does not exist.
func (s *SQLiteStorage) LoadAccount(ctx context.Context, name string) (*service.AccountRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	record := &service.AccountRecord{Name: name}
	err := s.db.QueryRowContext(ctx, `SELECT created_at FROM accounts WHERE name = ?`, name).Scan(&record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	budget, err := s.loadBudget(ctx, name)
	if err != nil {
		return nil, err
	}
	record.Budget = budget

	txns, err := s.GetTransactions(ctx, name, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	record.Transactions = txns

	return record, nil
}

func (s *SQLiteStorage) loadBudget(ctx context.Context, name string) (*model.Budget, error) {
	var (
		initial, remaining decimal.Decimal
		period             string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT initial_amount, remaining_amount, period
		FROM budgets WHERE account_name = ?
	`, name).Scan(&initial, &remaining, &period)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	budget, err := model.RestoreBudget(initial, remaining, model.Period(period))
	if err != nil {
		return nil, fmt.Errorf("stored budget for %q is corrupt: %w", name, err)
	}
	return budget, nil
}

// SaveBudget creates or replaces the account's budget.
func (s *SQLiteStorage) SaveBudget(ctx context.Context, accountName string, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountName, "accountName"); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	return s.withWriteRetry(ctx, func() error {
		return s.saveBudget(ctx, accountName, budget)
	})
}

func (s *SQLiteStorage) saveBudget(ctx context.Context, accountName string, budget *model.Budget) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (name) VALUES (?)`, accountName); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if err := upsertBudgetTx(ctx, tx, accountName, budget); err != nil {
		return err
	}

	return tx.Commit()
}

func upsertBudgetTx(ctx context.Context, tx *sql.Tx, accountName string, budget *model.Budget) error {
	now := time.Now()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (account_name, initial_amount, remaining_amount, period, configured_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_name) DO UPDATE SET
			initial_amount = excluded.initial_amount,
			remaining_amount = excluded.remaining_amount,
			period = excluded.period,
			updated_at = excluded.updated_at
	`, accountName, budget.Initial(), budget.Remaining(), string(budget.Period()), now, now)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}
