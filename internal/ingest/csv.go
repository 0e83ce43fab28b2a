// Package ingest bulk-loads activity rows from CSV files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// Row is one parsed activity.
type Row struct {
	Quantity decimal.Decimal
	Category model.Category
	Line     int
}

// RowError describes a line that could not be used.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// ReadActivities parses "category,quantity" records. A leading header row
// and lines starting with # are skipped. Malformed rows are returned as
// RowErrors; only an unreadable stream fails the whole call.
func ReadActivities(r io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		rows    []Row
		invalid []RowError
		first   = true
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				invalid = append(invalid, RowError{Line: parseErr.Line, Err: parseErr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read activities: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "category") {
				continue
			}
		}

		row, err := parseRecord(record)
		if err != nil {
			invalid = append(invalid, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}

	return rows, invalid, nil
}

func parseRecord(record []string) (Row, error) {
	if len(record) != 2 {
		return Row{}, common.InvalidArgument("expected 2 fields, got %d", len(record))
	}

	category, err := model.ParseCategory(record[0])
	if err != nil {
		return Row{}, err
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(record[1]))
	if err != nil {
		return Row{}, common.InvalidArgument("invalid quantity %q", record[1])
	}

	return Row{Category: category, Quantity: quantity}, nil
}
