package emission

import (
	"testing"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEmission_AllCategories(t *testing.T) {
	quantities := []string{"0.001", "1", "2.5", "100", "12345.678"}

	for _, cat := range model.AllCategories() {
		for _, q := range quantities {
			qty := decimal.RequireFromString(q)
			got, err := ComputeEmission(cat, qty)
			require.NoError(t, err, "%s x %s", cat.Identifier(), q)

			want := cat.EmissionFactor().Mul(qty)
			assert.True(t, got.Equal(want), "%s x %s = %s, want %s", cat.Identifier(), q, got, want)
		}
	}
}

func TestComputeEmission_Examples(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		want     string
		category model.Category
	}{
		{name: "car 100 km", category: model.CategoryCar, quantity: "100", want: "21"},
		{name: "long flight 1 hour", category: model.CategoryFlightLong, quantity: "1", want: "0.4"},
		{name: "three vegan meals", category: model.CategoryMealVegan, quantity: "3", want: "3"},
		{name: "waste half kg", category: model.CategoryWaste, quantity: "0.5", want: "0.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEmission(tt.category, decimal.RequireFromString(tt.quantity))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestComputeEmission_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		category model.Category
	}{
		{name: "zero quantity", category: model.CategoryCar, quantity: "0"},
		{name: "negative quantity", category: model.CategoryCar, quantity: "-5"},
		{name: "unknown category", category: model.CategoryUnknown, quantity: "1"},
		{name: "out of range category", category: model.Category(99), quantity: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEmission(tt.category, decimal.RequireFromString(tt.quantity))
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.True(t, got.IsZero())
		})
	}
}
