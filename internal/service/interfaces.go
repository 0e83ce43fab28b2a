// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/carbon-budget/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  model.Category
	Limit     int
	Offset    int
}

// AccountRecord is the stored state of one account.
type AccountRecord struct {
	CreatedAt    time.Time
	Budget       *model.Budget
	Name         string
	Transactions []model.Transaction
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Account operations
	EnsureAccount(ctx context.Context, name string) error
	LoadAccount(ctx context.Context, name string) (*AccountRecord, error)
	ListAccounts(ctx context.Context) ([]string, error)

	// Budget operations
	SaveBudget(ctx context.Context, accountName string, budget *model.Budget) error

	// Transaction operations
	RecordTransaction(ctx context.Context, accountName string, txn model.Transaction, budget *model.Budget) error
	GetTransactions(ctx context.Context, accountName string, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionCount(ctx context.Context, accountName string) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}
