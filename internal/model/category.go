package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/shopspring/decimal"
)

// Category is an activity kind from the fixed emission catalog.
// The zero value is not a catalog member.
type Category uint8

// Catalog members, in display order.
const (
	CategoryUnknown Category = iota
	CategoryCar
	CategoryBus
	CategoryTrain
	CategoryFlightShort
	CategoryFlightLong
	CategoryElectricity
	CategoryGas
	CategoryMealMeat
	CategoryMealVegetarian
	CategoryMealVegan
	CategoryWaste
)

type categoryInfo struct {
	identifier string
	unit       string
	factor     decimal.Decimal
}

// catalog holds kg CO2e per unit for every member. Index 0 is CategoryUnknown.
var catalog = [...]categoryInfo{
	CategoryUnknown:        {identifier: "UNKNOWN"},
	CategoryCar:            {identifier: "CAR", factor: decimal.RequireFromString("0.21"), unit: "km"},
	CategoryBus:            {identifier: "BUS", factor: decimal.RequireFromString("0.12"), unit: "km"},
	CategoryTrain:          {identifier: "TRAIN", factor: decimal.RequireFromString("0.10"), unit: "km"},
	CategoryFlightShort:    {identifier: "FLIGHT_SHORT", factor: decimal.RequireFromString("0.30"), unit: "hour"},
	CategoryFlightLong:     {identifier: "FLIGHT_LONG", factor: decimal.RequireFromString("0.40"), unit: "hour"},
	CategoryElectricity:    {identifier: "ELECTRICITY", factor: decimal.RequireFromString("0.40"), unit: "kWh"},
	CategoryGas:            {identifier: "GAS", factor: decimal.RequireFromString("2.0"), unit: "kg"},
	CategoryMealMeat:       {identifier: "MEAL_MEAT", factor: decimal.RequireFromString("2.5"), unit: "meal"},
	CategoryMealVegetarian: {identifier: "MEAL_VEGETARIAN", factor: decimal.RequireFromString("1.5"), unit: "meal"},
	CategoryMealVegan:      {identifier: "MEAL_VEGAN", factor: decimal.RequireFromString("1.0"), unit: "meal"},
	CategoryWaste:          {identifier: "WASTE", factor: decimal.RequireFromString("1.2"), unit: "kg"},
}

// AllCategories returns every catalog member in display order.
func AllCategories() []Category {
	cats := make([]Category, 0, len(catalog)-1)
	for c := CategoryCar; int(c) < len(catalog); c++ {
		cats = append(cats, c)
	}
	return cats
}

// Valid reports whether c is a member of the catalog.
func (c Category) Valid() bool {
	return c > CategoryUnknown && int(c) < len(catalog)
}

// Identifier returns the stable upper-case name, e.g. "FLIGHT_LONG".
func (c Category) Identifier() string {
	if !c.Valid() {
		return catalog[CategoryUnknown].identifier
	}
	return catalog[c].identifier
}

// EmissionFactor returns kg CO2e emitted per unit of activity.
func (c Category) EmissionFactor() decimal.Decimal {
	if !c.Valid() {
		return decimal.Zero
	}
	return catalog[c].factor
}

// Unit returns the measurement unit label for quantities of this category.
func (c Category) Unit() string {
	if !c.Valid() {
		return ""
	}
	return catalog[c].unit
}

// String renders the category the way history reports show it.
func (c Category) String() string {
	if !c.Valid() {
		return c.Identifier()
	}
	return fmt.Sprintf("%s (%s kg CO₂ per %s)", c.Identifier(), FormatAmount(c.EmissionFactor()), c.Unit())
}

// ParseCategory resolves an identifier such as "car" or "MEAL_VEGAN".
func ParseCategory(s string) (Category, error) {
	id := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if catalog[c].identifier == id {
			return c, nil
		}
	}
	return CategoryUnknown, common.InvalidArgument("unknown category %q", s)
}

// FormatAmount renders a decimal the way report headers show numbers: always
// with at least one fractional digit ("100.0", "9.6", "0.21").
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
