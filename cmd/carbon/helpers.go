package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/report"
	"github.com/Veraticus/carbon-budget/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
)

// initStorage opens the configured database and brings its schema up to date.
func (a *app) initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(a.cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// openTracker opens the selected account. The caller closes the returned
// storage when done.
func (a *app) openTracker(ctx context.Context) (*engine.Tracker, *storage.SQLiteStorage, error) {
	name, err := a.cfg.RequireAccount()
	if err != nil {
		return nil, nil, err
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	writer := report.NewFileWriter(afero.NewOsFs(), a.cfg.HistoryDir)
	tracker, err := engine.OpenTracker(ctx, store, name, engine.WithHistoryWriter(writer))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to open account %q: %w", name, err)
	}

	return tracker, store, nil
}

// parseAmount parses a strictly positive decimal argument.
func parseAmount(raw, what string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.NewUserError(
			fmt.Sprintf("invalid %s %q: enter a decimal number", what, raw),
			common.ErrInvalidArgument)
	}
	if !d.IsPositive() {
		return decimal.Zero, common.NewUserError(
			fmt.Sprintf("%s must be greater than zero", what),
			common.ErrInvalidArgument)
	}
	return d, nil
}

// noBudgetError converts a missing budget into actionable advice.
func noBudgetError(err error) error {
	if errors.Is(err, common.ErrNoBudget) {
		return common.NewUserError(
			"no budget configured; set one with: carbon budget set <amount> --period WEEK",
			err)
	}
	return err
}

// autoCheckpoint snapshots the database before a destructive operation.
// Failure is logged and does not block the operation.
func autoCheckpoint(ctx context.Context, store *storage.SQLiteStorage, operation string) {
	manager, err := store.Checkpoints()
	if err == nil {
		_, err = manager.AutoCheckpoint(ctx, operation)
	}
	if err != nil {
		slog.Warn("Automatic checkpoint failed", "operation", operation, "error", err)
	}
}
