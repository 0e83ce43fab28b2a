// Package emission converts logged activity into kg CO2e using the fixed catalog.
package emission

import (
	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
)

// ComputeEmission returns factor(category) * quantity.
func ComputeEmission(category model.Category, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !category.Valid() {
		return decimal.Zero, common.InvalidArgument("category cannot be empty")
	}
	if !quantity.IsPositive() {
		return decimal.Zero, common.InvalidArgument("quantity must be a positive value, got %s", quantity)
	}
	return category.EmissionFactor().Mul(quantity), nil
}
