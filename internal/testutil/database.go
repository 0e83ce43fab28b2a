// Package testutil provides shared helpers for tests that need a real
// carbon store or a history sink.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/storage"
)

// SetupTestStore creates a migrated SQLite store in a temporary directory.
// The store is closed automatically when the test finishes.
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "carbon.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// HistoryRecorder captures every summary handed to it. Set Err to make
// writes fail.
type HistoryRecorder struct {
	Err       error
	summaries []model.Summary
	mu        sync.Mutex
}

// WriteHistory records the summary and returns Err.
func (r *HistoryRecorder) WriteHistory(_ context.Context, summary model.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
	return r.Err
}

// Summaries returns a copy of everything written so far.
func (r *HistoryRecorder) Summaries() []model.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Summary, len(r.summaries))
	copy(out, r.summaries)
	return out
}

// Last returns the most recent summary and whether one exists.
func (r *HistoryRecorder) Last() (model.Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.summaries) == 0 {
		return model.Summary{}, false
	}
	return r.summaries[len(r.summaries)-1], true
}
