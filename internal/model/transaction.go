package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the display form of a transaction's creation time.
const TimestampLayout = "02 Jan 2006 03:04 PM"

// Transaction is an immutable record of one logged activity.
type Transaction struct {
	createdAt time.Time
	quantity  decimal.Decimal
	emission  decimal.Decimal
	id        string
	category  Category
}

// NewTransaction validates and builds a new record with a fresh identifier.
func NewTransaction(category Category, quantity, emission decimal.Decimal, createdAt time.Time) (Transaction, error) {
	return RestoreTransaction(uuid.NewString(), category, quantity, emission, createdAt)
}

// RestoreTransaction rebuilds a previously stored record.
func RestoreTransaction(id string, category Category, quantity, emission decimal.Decimal, createdAt time.Time) (Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return Transaction{}, common.InvalidArgument("transaction id cannot be empty")
	}
	if !category.Valid() {
		return Transaction{}, common.InvalidArgument("category cannot be empty")
	}
	if quantity.IsNegative() {
		return Transaction{}, common.InvalidArgument("quantity cannot be negative: %s", quantity)
	}
	if emission.IsNegative() {
		return Transaction{}, common.InvalidArgument("emission cannot be negative: %s", emission)
	}

	return Transaction{
		id:        id,
		category:  category,
		quantity:  quantity,
		emission:  emission,
		createdAt: createdAt,
	}, nil
}

// ID returns the storage identifier.
func (t Transaction) ID() string { return t.id }

// Category returns the logged activity category.
func (t Transaction) Category() Category { return t.category }

// Quantity returns the amount of activity in the category's unit.
func (t Transaction) Quantity() decimal.Decimal { return t.quantity }

// Emission returns kg CO2e charged for this activity.
func (t Transaction) Emission() decimal.Decimal { return t.emission }

// CreatedAt returns when the activity was logged.
func (t Transaction) CreatedAt() time.Time { return t.createdAt }

// Unit returns the category's measurement unit.
func (t Transaction) Unit() string { return t.category.Unit() }

// Timestamp returns the creation time formatted for display.
func (t Transaction) Timestamp() string {
	return t.createdAt.Format(TimestampLayout)
}

// Equal compares category, quantity and emission. The creation time and
// identifier do not take part.
func (t Transaction) Equal(other Transaction) bool {
	return t.category == other.category &&
		t.quantity.Equal(other.quantity) &&
		t.emission.Equal(other.emission)
}

// Percentage returns this emission as a share of total, in percent.
func (t Transaction) Percentage(total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return t.emission.Div(total).Mul(decimal.NewFromInt(100))
}

// ExceedsThreshold reports whether the emission is strictly above threshold.
func (t Transaction) ExceedsThreshold(threshold decimal.Decimal) bool {
	return t.emission.GreaterThan(threshold)
}

// String renders the single-line history form.
func (t Transaction) String() string {
	return fmt.Sprintf("%s | %s: %s %s -> %s kg CO2e",
		t.Timestamp(),
		t.category,
		t.quantity.StringFixed(2),
		t.Unit(),
		t.emission.StringFixed(2))
}

// DetailedString renders a multi-line description including the factor used.
func (t Transaction) DetailedString() string {
	var sb strings.Builder
	sb.WriteString("Emission transaction details\n")
	fmt.Fprintf(&sb, "Timestamp:  %s\n", t.Timestamp())
	fmt.Fprintf(&sb, "Category:   %s\n", t.category)
	fmt.Fprintf(&sb, "Quantity:   %s %s\n", t.quantity.StringFixed(2), t.Unit())
	fmt.Fprintf(&sb, "Factor:     %s kg CO2e per %s\n", t.category.EmissionFactor().StringFixed(3), t.Unit())
	fmt.Fprintf(&sb, "Emission:   %s kg CO2e\n", t.emission.StringFixed(2))
	return sb.String()
}
