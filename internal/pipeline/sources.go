// Package pipeline holds the spending analytics: month windows, budget
// progress, monthly insights, predictions, reports and alert evaluation.
// Everything here reads through small source interfaces so the ledger,
// the daemon and the tests can supply their own data.
package pipeline

import (
	"context"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

// ExpenseSource returns expenses dated within [start, end].
type ExpenseSource interface {
	ExpensesInRange(ctx context.Context, start, end time.Time) ([]model.Expense, error)
}

// CategoryExpenseSource returns one category's expenses dated within [start, end].
type CategoryExpenseSource interface {
	ExpensesByCategoryInRange(ctx context.Context, category model.Category, start, end time.Time) ([]model.Expense, error)
}

// LedgerSource is the read side the alert evaluator needs.
type LedgerSource interface {
	ExpenseSource
	CategoryExpenseSource
}

// BudgetSource returns budgets.
type BudgetSource interface {
	ActiveBudgets(ctx context.Context) ([]model.Budget, error)
	BudgetByID(ctx context.Context, id int64) (model.Budget, error)
}

// NotificationSink accepts generated notifications.
type NotificationSink interface {
	SaveNotification(ctx context.Context, n model.Notification) error
}
