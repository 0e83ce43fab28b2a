package model

import (
	"errors"
	"testing"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/shopspring/decimal"
)

func TestCatalog_FactorsAndUnits(t *testing.T) {
	tests := []struct {
		factor   string
		unit     string
		category Category
	}{
		{category: CategoryCar, factor: "0.21", unit: "km"},
		{category: CategoryBus, factor: "0.12", unit: "km"},
		{category: CategoryTrain, factor: "0.10", unit: "km"},
		{category: CategoryFlightShort, factor: "0.30", unit: "hour"},
		{category: CategoryFlightLong, factor: "0.40", unit: "hour"},
		{category: CategoryElectricity, factor: "0.40", unit: "kWh"},
		{category: CategoryGas, factor: "2.0", unit: "kg"},
		{category: CategoryMealMeat, factor: "2.5", unit: "meal"},
		{category: CategoryMealVegetarian, factor: "1.5", unit: "meal"},
		{category: CategoryMealVegan, factor: "1.0", unit: "meal"},
		{category: CategoryWaste, factor: "1.2", unit: "kg"},
	}

	if got := len(AllCategories()); got != len(tests) {
		t.Fatalf("AllCategories() returned %d categories, want %d", got, len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.category.Identifier(), func(t *testing.T) {
			want := decimal.RequireFromString(tt.factor)
			if !tt.category.EmissionFactor().Equal(want) {
				t.Errorf("EmissionFactor() = %s, want %s", tt.category.EmissionFactor(), want)
			}
			if tt.category.Unit() != tt.unit {
				t.Errorf("Unit() = %q, want %q", tt.category.Unit(), tt.unit)
			}
			if !tt.category.EmissionFactor().IsPositive() {
				t.Error("factor must be positive")
			}
		})
	}
}

func TestCategory_Unknown(t *testing.T) {
	if CategoryUnknown.Valid() {
		t.Error("zero category must not be a catalog member")
	}
	if Category(200).Valid() {
		t.Error("out of range category must not be a catalog member")
	}
	if !CategoryUnknown.EmissionFactor().IsZero() {
		t.Error("unknown category should have no factor")
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{input: "CAR", want: CategoryCar},
		{input: "car", want: CategoryCar},
		{input: "  flight_long ", want: CategoryFlightLong},
		{input: "Meal_Vegan", want: CategoryMealVegan},
		{input: "BICYCLE", wantErr: true},
		{input: "", wantErr: true},
		{input: "UNKNOWN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				if !errors.Is(err, common.ErrInvalidArgument) {
					t.Fatalf("ParseCategory(%q) error = %v, want ErrInvalidArgument", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategory(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategory_String(t *testing.T) {
	if got, want := CategoryCar.String(), "CAR (0.21 kg CO₂ per km)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := CategoryGas.String(), "GAS (2.0 kg CO₂ per kg)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := CategoryTrain.String(), "TRAIN (0.1 kg CO₂ per km)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("month")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != PeriodMonth || p.Days() != 30 || p.DisplayName() != "Month" {
		t.Errorf("ParsePeriod(month) = %v (%d days, %q)", p, p.Days(), p.DisplayName())
	}

	p, err = ParsePeriod("WEEK")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Days() != 7 || p.DisplayName() != "Week" {
		t.Errorf("week period = %d days, %q", p.Days(), p.DisplayName())
	}

	for _, bad := range []string{"", "YEAR", "daily"} {
		if _, err := ParsePeriod(bad); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("ParsePeriod(%q) error = %v, want ErrInvalidArgument", bad, err)
		}
	}
}
