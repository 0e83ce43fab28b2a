package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/service"
)

func TestSQLiteStorage_RecordTransaction(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, time.February, 1, 12, 0, 0, 0, time.UTC)
	budget := mustBudget(t, "100", "100", model.PeriodWeek)
	if err := store.SaveBudget(ctx, "alice", budget); err != nil {
		t.Fatalf("Failed to save budget: %v", err)
	}

	logged := []model.Transaction{
		mustTransaction(t, model.CategoryCar, "100", base),
		mustTransaction(t, model.CategoryMealVegan, "2", base.Add(time.Hour)),
		mustTransaction(t, model.CategoryCar, "10", base.Add(2*time.Hour)),
	}
	for _, txn := range logged {
		if _, err := budget.Charge(txn.Emission()); err != nil {
			t.Fatalf("Failed to charge budget: %v", err)
		}
		if err := store.RecordTransaction(ctx, "alice", txn, budget); err != nil {
			t.Fatalf("Failed to record transaction: %v", err)
		}
	}

	rec, err := store.LoadAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to load account: %v", err)
	}

	// 100 - 21 - 2 - 2.1
	if !rec.Budget.Remaining().Equal(dec("74.9")) {
		t.Errorf("Remaining = %s, want 74.9", rec.Budget.Remaining())
	}
	if len(rec.Transactions) != len(logged) {
		t.Fatalf("Expected %d transactions, got %d", len(logged), len(rec.Transactions))
	}
	for i, got := range rec.Transactions {
		want := logged[i]
		if got.ID() != want.ID() {
			t.Errorf("transaction %d id = %s, want %s", i, got.ID(), want.ID())
		}
		if !got.Equal(want) {
			t.Errorf("transaction %d = %v, want %v", i, got, want)
		}
		if !got.CreatedAt().Equal(want.CreatedAt()) {
			t.Errorf("transaction %d created_at = %v, want %v", i, got.CreatedAt(), want.CreatedAt())
		}
	}

	count, err := store.GetTransactionCount(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Count = %d, want 3", count)
	}
}

func TestSQLiteStorage_RecordTransactionDuplicateRollsBack(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	budget := mustBudget(t, "100", "79", model.PeriodWeek)
	txn := mustTransaction(t, model.CategoryCar, "100", time.Now())
	if err := store.RecordTransaction(ctx, "alice", txn, budget); err != nil {
		t.Fatalf("Failed to record transaction: %v", err)
	}

	// Same id again with a different balance: the insert fails and the
	// balance update must not be applied either.
	if err := store.RecordTransaction(ctx, "alice", txn, mustBudget(t, "100", "58", model.PeriodWeek)); err == nil {
		t.Fatal("Expected duplicate transaction to fail")
	}

	rec, err := store.LoadAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("Failed to load account: %v", err)
	}
	if !rec.Budget.Remaining().Equal(dec("79")) {
		t.Errorf("Remaining = %s, want 79", rec.Budget.Remaining())
	}
	if len(rec.Transactions) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(rec.Transactions))
	}
}

func TestSQLiteStorage_RecordTransactionValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	budget := mustBudget(t, "10", "10", model.PeriodWeek)
	if err := store.RecordTransaction(ctx, "alice", model.Transaction{}, budget); !errors.Is(err, ErrInvalidTransaction) {
		t.Errorf("Expected ErrInvalidTransaction, got %v", err)
	}

	txn := mustTransaction(t, model.CategoryBus, "1", time.Now())
	if err := store.RecordTransaction(ctx, "alice", txn, nil); !errors.Is(err, ErrNilParameter) {
		t.Errorf("Expected ErrNilParameter, got %v", err)
	}
}

func TestSQLiteStorage_GetTransactionsFilter(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, time.April, 10, 8, 0, 0, 0, time.UTC)
	budget := mustBudget(t, "1000", "1000", model.PeriodMonth)
	cats := []model.Category{model.CategoryCar, model.CategoryBus, model.CategoryCar, model.CategoryWaste, model.CategoryCar}
	for i, cat := range cats {
		txn := mustTransaction(t, cat, "1", base.Add(time.Duration(i)*24*time.Hour))
		if err := store.RecordTransaction(ctx, "alice", txn, budget); err != nil {
			t.Fatalf("Failed to record transaction: %v", err)
		}
	}
	// Another account's history must never leak in.
	other := mustTransaction(t, model.CategoryCar, "1", base)
	if err := store.RecordTransaction(ctx, "bob", other, budget); err != nil {
		t.Fatalf("Failed to record transaction: %v", err)
	}

	start := base.Add(24 * time.Hour)
	end := base.Add(3 * 24 * time.Hour)

	tests := []struct {
		name   string
		filter service.TransactionFilter
		want   int
	}{
		{name: "no filter", filter: service.TransactionFilter{}, want: 5},
		{name: "category", filter: service.TransactionFilter{Category: model.CategoryCar}, want: 3},
		{name: "date range", filter: service.TransactionFilter{StartDate: &start, EndDate: &end}, want: 3},
		{name: "range and category", filter: service.TransactionFilter{StartDate: &start, EndDate: &end, Category: model.CategoryCar}, want: 1},
		{name: "limit", filter: service.TransactionFilter{Limit: 2}, want: 2},
		{name: "limit with offset", filter: service.TransactionFilter{Limit: 2, Offset: 4}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := store.GetTransactions(ctx, "alice", tt.filter)
			if err != nil {
				t.Fatalf("Failed to get transactions: %v", err)
			}
			if len(txns) != tt.want {
				t.Errorf("Expected %d transactions, got %d", tt.want, len(txns))
			}
		})
	}

	if _, err := store.GetTransactions(ctx, "alice", service.TransactionFilter{StartDate: &end, EndDate: &start}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("Expected ErrInvalidDateRange, got %v", err)
	}
}
