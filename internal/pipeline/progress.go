package pipeline

import (
	"context"
	"math"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// Status band edges, in percent of the limit. These are independent of the
// configurable alert threshold.
const (
	warningFrom  = 70.0
	exceededOver = 100.0
)

// StatusFor maps a usage percentage onto the three fixed bands.
func StatusFor(pct float64) model.BudgetStatus {
	switch {
	case pct < warningFrom:
		return model.StatusOK
	case pct <= exceededOver:
		return model.StatusWarning
	default:
		return model.StatusExceeded
	}
}

// CalculateProgress sums expenses against the budget limit. The caller is
// expected to pass only expenses in the budget's category and window.
func CalculateProgress(b model.Budget, expenses []model.Expense) model.BudgetProgress {
	spent := model.SumAmounts(expenses)
	var pct float64
	if b.Limit > 0 {
		pct = (spent / b.Limit) * 100
	}
	return model.BudgetProgress{
		Budget:     b,
		Spent:      spent,
		Percentage: pct,
		Remaining:  math.Max(0, b.Limit-spent),
		Status:     StatusFor(pct),
	}
}

// FilterForBudget keeps expenses in the budget's category dated within its
// inclusive window.
func FilterForBudget(b model.Budget, expenses []model.Expense) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if e.Category == b.Category && b.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// ProgressFor fetches the budget's window and computes its progress.
func ProgressFor(ctx context.Context, src CategoryExpenseSource, b model.Budget) (model.BudgetProgress, error) {
	expenses, err := src.ExpensesByCategoryInRange(ctx, b.Category, b.StartDate, b.EndDate)
	if err != nil {
		return model.BudgetProgress{}, apperr.WrapKind("budget progress", apperr.KindDatabase, err)
	}
	return CalculateProgress(b, FilterForBudget(b, expenses)), nil
}

// ProgressByID looks up a budget and computes its progress.
func ProgressByID(ctx context.Context, budgets BudgetSource, src CategoryExpenseSource, id int64) (model.BudgetProgress, error) {
	b, err := budgets.BudgetByID(ctx, id)
	if err != nil {
		return model.BudgetProgress{}, apperr.WrapKind("budget progress", apperr.KindDatabase, err)
	}
	return ProgressFor(ctx, src, b)
}
