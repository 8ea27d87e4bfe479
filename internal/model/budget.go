package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidLimit is returned for budgets whose limit is not positive.
var ErrInvalidLimit = errors.New("budget limit must be positive")

// BudgetPeriod is the length of a budget window.
type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "MONTHLY"
	PeriodAnnual  BudgetPeriod = "ANNUAL"
)

// ParseBudgetPeriod accepts "monthly" or "annual" in any case.
func ParseBudgetPeriod(s string) (BudgetPeriod, bool) {
	switch BudgetPeriod(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodMonthly:
		return PeriodMonthly, true
	case PeriodAnnual:
		return PeriodAnnual, true
	}
	return "", false
}

// Budget is a spending limit for one category over a fixed window.
// Deactivation flips Active; budgets are never physically removed.
type Budget struct {
	ID        int64
	Category  Category
	Limit     float64
	Period    BudgetPeriod
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	Active    bool
}

// NewBudget builds an active budget whose end date is one period after start.
func NewBudget(category Category, limit float64, period BudgetPeriod, start time.Time) (Budget, error) {
	if limit <= 0 {
		return Budget{}, ErrInvalidLimit
	}
	if period != PeriodAnnual {
		period = PeriodMonthly
	}
	return Budget{
		Category:  category,
		Limit:     limit,
		Period:    period,
		StartDate: start,
		EndDate:   PeriodEnd(start, period),
		CreatedAt: time.Now(),
		Active:    true,
	}, nil
}

// PeriodEnd returns start plus one month or one year. The day of month is
// clamped to the target month, so Jan 31 + 1 month is the last day of February.
func PeriodEnd(start time.Time, period BudgetPeriod) time.Time {
	if period == PeriodAnnual {
		return addMonthsClamped(start, 12)
	}
	return addMonthsClamped(start, 1)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// Contains reports whether t falls within [StartDate, EndDate], inclusive.
func (b Budget) Contains(t time.Time) bool {
	return !t.Before(b.StartDate) && !t.After(b.EndDate)
}

// BudgetStatus is the fixed three-band classification of budget usage.
type BudgetStatus string

const (
	StatusOK       BudgetStatus = "OK"
	StatusWarning  BudgetStatus = "WARNING"
	StatusExceeded BudgetStatus = "EXCEEDED"
)

// BudgetProgress is derived on demand and never persisted.
type BudgetProgress struct {
	Budget     Budget
	Spent      float64
	Percentage float64
	Remaining  float64
	Status     BudgetStatus
}
