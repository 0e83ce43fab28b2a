package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version this build reads and writes.
const ExpectedSchemaVersion = 2

// schemaStep moves the database from version-1 to version.
type schemaStep struct {
	description string
	statements  []string
	version     int
}

var schemaSteps = []schemaStep{
	{
		version:     1,
		description: "accounts and budgets",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS accounts (
				name TEXT PRIMARY KEY,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS budgets (
				account_name TEXT PRIMARY KEY REFERENCES accounts(name),
				initial_amount TEXT NOT NULL,
				remaining_amount TEXT NOT NULL,
				period TEXT NOT NULL CHECK (period IN ('WEEK', 'MONTH')),
				configured_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version:     2,
		description: "emission transaction log",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS emission_transactions (
				id TEXT PRIMARY KEY,
				account_name TEXT NOT NULL REFERENCES accounts(name),
				seq INTEGER NOT NULL,
				category TEXT NOT NULL,
				quantity TEXT NOT NULL,
				emission TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				UNIQUE (account_name, seq)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_emission_transactions_created
				ON emission_transactions(account_name, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_emission_transactions_category
				ON emission_transactions(category)`,
		},
	},
}

// SchemaVersion reads PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// Migrate brings the schema up to ExpectedSchemaVersion. Each step runs in
// its own transaction together with the user_version bump.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range schemaSteps {
		if step.version <= current {
			continue
		}
		if err := s.applyStep(ctx, step); err != nil {
			return err
		}
		slog.Debug("Applied schema step", "version", step.version, "description", step.description)
		current = step.version
	}

	if current != ExpectedSchemaVersion {
		return fmt.Errorf("database schema is at version %d, this build expects %d", current, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) applyStep(ctx context.Context, step schemaStep) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", step.version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range step.statements {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", step.version, step.description, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", step.version)); err != nil {
		return fmt.Errorf("migration %d: set user_version: %w", step.version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migration %d: commit: %w", step.version, err)
	}
	return nil
}

