package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/carbon-budget/internal/engine"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/Veraticus/carbon-budget/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, history engine.HistoryWriter) *engine.Tracker {
	t.Helper()
	store := testutil.SetupTestStore(t)
	tracker, err := engine.OpenTracker(context.Background(), store, "alice", engine.WithHistoryWriter(history))
	require.NoError(t, err)
	return tracker
}

func runSession(t *testing.T, tracker *engine.Tracker, input string, opts ...SessionOption) string {
	t.Helper()
	var out bytes.Buffer
	session := NewSession(tracker, strings.NewReader(input), &out, opts...)
	require.NoError(t, session.Run(context.Background()))
	return out.String()
}

func TestSession_SetupLogAndSummary(t *testing.T) {
	history := &testutil.HistoryRecorder{}
	tracker := newTestTracker(t, history)

	output := runSession(t, tracker, strings.Join([]string{
		"100", "WEEK",
		"1", "car", "100",
		"2",
		"4",
	}, "\n")+"\n")

	assert.Contains(t, output, "No budget configured yet.")
	assert.Contains(t, output, "Budget set successfully!")
	assert.Contains(t, output, "CAR (0.21 kg CO₂ per km)")
	assert.Contains(t, output, "21.00 kg CO2e")
	assert.Contains(t, output, "Remaining budget: 79.0 kg CO₂")
	assert.Contains(t, output, "Carbon summary for alice")
	assert.Contains(t, output, "History saved.")
	assert.Contains(t, output, "Goodbye!")

	// One write per commit plus one for the summary.
	assert.Len(t, history.Summaries(), 2)
	assert.Len(t, tracker.Account().Transactions(), 1)
}

func TestSession_RejectionLeavesBudget(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})
	require.NoError(t, tracker.ConfigureBudget(context.Background(), decimal.NewFromInt(5), model.PeriodWeek))

	output := runSession(t, tracker, "1\nFLIGHT_LONG\n100\n4\n")

	assert.Contains(t, output, "exceeds remaining budget")
	assert.NotContains(t, output, "No budget configured yet.")
	assert.Empty(t, tracker.Account().Transactions())
	assert.True(t, tracker.Account().Budget().Remaining().Equal(decimal.NewFromInt(5)))
}

func TestSession_RetriesInvalidInput(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})

	output := runSession(t, tracker, strings.Join([]string{
		"lots", "10", "",
		"9",
		"1", "PLANE", "BUS", "ten", "5",
		"4",
	}, "\n")+"\n", WithDefaultPeriod(model.PeriodMonth))

	assert.Contains(t, output, "Invalid number. Please enter a valid decimal")
	assert.Contains(t, output, "Invalid choice. Try again.")
	assert.Contains(t, output, "Invalid category. Try again.")
	assert.Equal(t, model.PeriodMonth, tracker.Account().Budget().Period())
	require.Len(t, tracker.Account().Transactions(), 1)
	assert.Equal(t, model.CategoryBus, tracker.Account().Transactions()[0].Category())
}

func TestSession_InvalidQuantityAndBudget(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})

	output := runSession(t, tracker, strings.Join([]string{
		"-5", "WEEK",
		"20", "MONTH",
		"1", "TRAIN", "-3",
		"4",
	}, "\n")+"\n")

	assert.Contains(t, output, "budget amount must be greater than zero")
	assert.Contains(t, output, "Error:")
	assert.Empty(t, tracker.Account().Transactions())
	assert.True(t, tracker.Account().Budget().Remaining().Equal(decimal.NewFromInt(20)))
}

func TestSession_ResetBudget(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})
	ctx := context.Background()
	require.NoError(t, tracker.ConfigureBudget(ctx, decimal.NewFromInt(10), model.PeriodWeek))
	_, err := tracker.LogActivity(ctx, model.CategoryMealMeat, decimal.NewFromInt(2))
	require.NoError(t, err)

	output := runSession(t, tracker, "3\n4\n")

	assert.Contains(t, output, "Budget reset. Remaining: 10.0 kg CO₂")
	assert.Len(t, tracker.Account().Transactions(), 1)
}

func TestSession_EndOfInputExits(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})
	require.NoError(t, tracker.ConfigureBudget(context.Background(), decimal.NewFromInt(10), model.PeriodWeek))

	output := runSession(t, tracker, "2")

	assert.Contains(t, output, "Carbon summary for alice")
	assert.Contains(t, output, "No activities logged.")
	assert.Contains(t, output, "Goodbye!")
}

func TestSession_CanceledContext(t *testing.T) {
	tracker := newTestTracker(t, &testutil.HistoryRecorder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := NewSession(tracker, strings.NewReader("4\n"), &out).Run(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}
