package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/service"
	"github.com/shopspring/decimal"
)

// RecordTransaction appends txn to the account's history and stores the
// budget balance after the charge, in a single database transaction.
func (s *SQLiteStorage) RecordTransaction(ctx context.Context, accountName string, txn model.Transaction, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(accountName, "accountName"); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	return s.withWriteRetry(ctx, func() error {
		return s.recordTransaction(ctx, accountName, txn, budget)
	})
}

func (s *SQLiteStorage) recordTransaction(ctx context.Context, accountName string, txn model.Transaction, budget *model.Budget) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (name) VALUES (?)`, accountName); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	var nextSeq int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM emission_transactions WHERE account_name = ?`,
		accountName).Scan(&nextSeq)
	if err != nil {
		return fmt.Errorf("failed to get next sequence: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO emission_transactions (id, account_name, seq, category, quantity, emission, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, txn.ID(), accountName, nextSeq, txn.Category().Identifier(), txn.Quantity(), txn.Emission(), txn.CreatedAt().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := upsertBudgetTx(ctx, tx, accountName, budget); err != nil {
		return err
	}

	return tx.Commit()
}

// GetTransactions returns an account's history in insertion order.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, accountName string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountName, "accountName"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}

	var (
		where = []string{"account_name = ?"}
		args  = []any{accountName}
	)
	if filter.StartDate != nil {
		where = append(where, "created_at >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		where = append(where, "created_at <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if filter.Category.Valid() {
		where = append(where, "category = ?")
		args = append(args, filter.Category.Identifier())
	}

	query := `SELECT id, category, quantity, emission, created_at FROM emission_transactions WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY seq`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var (
			id, categoryID     string
			quantity, emission decimal.Decimal
			createdAt          time.Time
		)
		if err := rows.Scan(&id, &categoryID, &quantity, &emission, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		category, err := model.ParseCategory(categoryID)
		if err != nil {
			return nil, fmt.Errorf("stored transaction %s: %w", id, err)
		}
		// Rows are stored in UTC; display times are local like freshly logged ones.
		txn, err := model.RestoreTransaction(id, category, quantity, emission, createdAt.Local())
		if err != nil {
			return nil, fmt.Errorf("stored transaction %s: %w", id, err)
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// GetTransactionCount returns how many activities the account has logged.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context, accountName string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM emission_transactions WHERE account_name = ?`, accountName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// Compile-time check.
var _ service.Storage = (*SQLiteStorage)(nil)
