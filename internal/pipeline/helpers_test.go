package pipeline

import (
	"context"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

// memLedger is an in-memory expense source with inclusive range filters.
type memLedger struct {
	expenses []model.Expense
	err      error
}

func (m *memLedger) ExpensesInRange(_ context.Context, start, end time.Time) ([]model.Expense, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Expense
	for _, e := range m.expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) ExpensesByCategoryInRange(ctx context.Context, c model.Category, start, end time.Time) ([]model.Expense, error) {
	all, err := m.ExpensesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var out []model.Expense
	for _, e := range all {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func exp(amount float64, c model.Category, at time.Time) model.Expense {
	return model.NewExpense(amount, c, "test expense", at)
}
