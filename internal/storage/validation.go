// Package storage provides the data persistence layer for the carbon application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBudget ensures a budget is present.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	return nil
}

// validateTransaction validates a single transaction before insert.
func validateTransaction(txn model.Transaction) error {
	if txn.ID() == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if !txn.Category().Valid() {
		return fmt.Errorf("%w: invalid category", ErrInvalidTransaction)
	}
	if txn.CreatedAt().IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidTransaction)
	}
	return nil
}
