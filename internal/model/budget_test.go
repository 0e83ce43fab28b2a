package model

import (
	"errors"
	"testing"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewBudget(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		period  Period
		wantErr bool
	}{
		{name: "weekly budget", amount: "100", period: PeriodWeek},
		{name: "monthly budget", amount: "0.5", period: PeriodMonth},
		{name: "zero amount", amount: "0", period: PeriodWeek, wantErr: true},
		{name: "negative amount", amount: "-10", period: PeriodWeek, wantErr: true},
		{name: "missing period", amount: "10", period: "", wantErr: true},
		{name: "unknown period", amount: "10", period: "YEAR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBudget(dec(tt.amount), tt.period)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidArgument)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.True(t, b.Remaining().Equal(dec(tt.amount)))
			assert.True(t, b.Used().IsZero())
			assert.True(t, b.PercentageUsed().IsZero())
			assert.False(t, b.IsOverBudget())
			assert.Equal(t, tt.period, b.Period())
		})
	}
}

func TestBudget_DeductSequence(t *testing.T) {
	b, err := NewBudget(dec("10"), PeriodWeek)
	require.NoError(t, err)

	deductions := []string{"2.5", "3.1", "4.4", "1.25"}
	sum := decimal.Zero
	for _, d := range deductions {
		stillPositive, err := b.Deduct(dec(d))
		require.NoError(t, err)
		sum = sum.Add(dec(d))

		want := dec("10").Sub(sum)
		assert.True(t, b.Remaining().Equal(want), "remaining %s, want %s", b.Remaining(), want)
		assert.Equal(t, !want.IsNegative(), stillPositive)
		assert.Equal(t, want.IsNegative(), b.IsOverBudget())
	}

	// 10 - 11.25, no clamping.
	assert.True(t, b.Remaining().Equal(dec("-1.25")))
	assert.True(t, b.Used().Equal(dec("11.25")))
	assert.True(t, b.PercentageUsed().Equal(dec("112.5")))
}

func TestBudget_DeductNegative(t *testing.T) {
	b, err := NewBudget(dec("10"), PeriodWeek)
	require.NoError(t, err)

	_, err = b.Deduct(dec("-1"))
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))
	assert.True(t, b.Remaining().Equal(dec("10")))
}

func TestBudget_CanAffordAgainstNegativeBalance(t *testing.T) {
	b, err := NewBudget(dec("5"), PeriodWeek)
	require.NoError(t, err)

	assert.True(t, b.CanAfford(dec("5")))
	assert.False(t, b.CanAfford(dec("5.01")))

	_, err = b.Deduct(dec("7"))
	require.NoError(t, err)
	assert.True(t, b.IsOverBudget())
	assert.False(t, b.CanAfford(decimal.Zero))
	assert.True(t, b.CanAfford(dec("-3")))
}

func TestBudget_Charge(t *testing.T) {
	b, err := NewBudget(dec("5"), PeriodWeek)
	require.NoError(t, err)

	ok, err := b.Charge(dec("21"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, b.Remaining().Equal(dec("5")))

	ok, err = b.Charge(dec("4.5"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b.Remaining().Equal(dec("0.5")))

	_, err = b.Charge(dec("-1"))
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestBudget_ResetIsIdempotent(t *testing.T) {
	b, err := NewBudget(dec("50"), PeriodMonth)
	require.NoError(t, err)

	_, _ = b.Deduct(dec("80"))
	require.True(t, b.IsOverBudget())

	b.Reset()
	assert.True(t, b.Remaining().Equal(dec("50")))
	b.Reset()
	assert.True(t, b.Remaining().Equal(dec("50")))
	assert.False(t, b.IsOverBudget())
}

func TestBudget_Clone(t *testing.T) {
	b, err := NewBudget(dec("50"), PeriodMonth)
	require.NoError(t, err)

	c := b.Clone()
	_, _ = c.Deduct(dec("10"))
	assert.True(t, b.Remaining().Equal(dec("50")))
	assert.True(t, c.Remaining().Equal(dec("40")))

	var nilBudget *Budget
	assert.Nil(t, nilBudget.Clone())
}
