package engine

import (
	"context"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/service"
)

// HistoryWriter persists a readable copy of an account's history. It is
// invoked after every committed activity; failures never undo the commit.
type HistoryWriter interface {
	WriteHistory(ctx context.Context, summary model.Summary) error
}

// HistoryWriterFunc adapts a function to HistoryWriter.
type HistoryWriterFunc func(ctx context.Context, summary model.Summary) error

// WriteHistory calls f.
func (f HistoryWriterFunc) WriteHistory(ctx context.Context, summary model.Summary) error {
	return f(ctx, summary)
}

// Store durably keeps account state between sessions. Unlike HistoryWriter,
// its failures are surfaced to the caller.
type Store interface {
	EnsureAccount(ctx context.Context, name string) error
	LoadAccount(ctx context.Context, name string) (*service.AccountRecord, error)
	SaveBudget(ctx context.Context, accountName string, budget *model.Budget) error
	RecordTransaction(ctx context.Context, accountName string, txn model.Transaction, budget *model.Budget) error
}
