package model

import (
	"strings"

	"github.com/Veraticus/carbon-budget/internal/common"
)

// Period is the recurrence window a budget covers. Rollover is manual.
type Period string

const (
	// PeriodWeek is a seven day budget window.
	PeriodWeek Period = "WEEK"
	// PeriodMonth is a thirty day budget window.
	PeriodMonth Period = "MONTH"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth
}

// Days returns the length of the window in days.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	default:
		return 0
	}
}

// DisplayName returns the human label, e.g. "Week".
func (p Period) DisplayName() string {
	switch p {
	case PeriodWeek:
		return "Week"
	case PeriodMonth:
		return "Month"
	default:
		return ""
	}
}

// ParsePeriod accepts "week" or "month" in any case.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", common.InvalidArgument("period must be WEEK or MONTH, got %q", s)
	}
	return p, nil
}
