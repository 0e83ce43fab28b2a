package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// Result tallies an import run.
type Result struct {
	Emission  decimal.Decimal
	Invalid   []RowError
	Committed int
	Rejected  int
}

// Logger is the part of engine.Tracker an import needs.
type Logger interface {
	LogActivity(ctx context.Context, category model.Category, quantity decimal.Decimal) (engine.Outcome, error)
}

// Apply logs each row in order. Rejected rows and rows the account refuses
// as invalid are counted and skipped. A storage failure stops the run;
// rows before it stay committed. progress, when non-nil, is called once per row.
func Apply(ctx context.Context, logger Logger, rows []Row, progress func()) (Result, error) {
	result := Result{Emission: decimal.Zero}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out, err := logger.LogActivity(ctx, row.Category, row.Quantity)
		switch {
		case err != nil && errors.Is(err, common.ErrInvalidArgument) && !out.Committed():
			result.Invalid = append(result.Invalid, RowError{Line: row.Line, Err: err})
		case err != nil:
			if out.Committed() {
				result.Committed++
				result.Emission = result.Emission.Add(out.Emission)
			}
			return result, fmt.Errorf("line %d: %w", row.Line, err)
		case out.Committed():
			result.Committed++
			result.Emission = result.Emission.Add(out.Emission)
		default:
			result.Rejected++
		}

		if progress != nil {
			progress()
		}
	}

	return result, nil
}
