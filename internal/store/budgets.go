package store

import (
	"context"
	"fmt"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

const budgetColumns = "id, category, limit_amount, period, start_date, end_date, created_at, active"

// CreateBudget validates and inserts a budget, returning its new id.
func (l *Ledger) CreateBudget(ctx context.Context, b model.Budget) (int64, error) {
	if b.Limit <= 0 {
		return 0, apperr.Validation("create budget", model.ErrInvalidLimit)
	}
	if b.EndDate.Before(b.StartDate) {
		return 0, apperr.Validation("create budget", fmt.Errorf("end date %s before start date %s",
			b.EndDate.Format("2006-01-02"), b.StartDate.Format("2006-01-02")))
	}

	res, err := l.db.ExecContext(ctx, `INSERT INTO budgets
		(category, limit_amount, period, start_date, end_date, created_at, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(b.Category), b.Limit, string(b.Period), formatTime(b.StartDate), formatTime(b.EndDate),
		formatTime(b.CreatedAt), boolInt(b.Active),
	)
	if err != nil {
		return 0, apperr.Database("create budget", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Database("create budget", err)
	}
	return id, nil
}

// BudgetByID returns one budget, active or not.
func (l *Ledger) BudgetByID(ctx context.Context, id int64) (model.Budget, error) {
	row := l.db.QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	b, err := scanBudget(row)
	if err != nil {
		return model.Budget{}, notFound("budget by id", fmt.Sprintf("budget %d", id), err)
	}
	return b, nil
}

// ActiveBudgets returns active budgets, newest first.
func (l *Ledger) ActiveBudgets(ctx context.Context) ([]model.Budget, error) {
	return l.queryBudgets(ctx, "active budgets",
		"SELECT "+budgetColumns+" FROM budgets WHERE active = 1 ORDER BY created_at DESC, id DESC")
}

// AllBudgets returns every budget including deactivated ones.
func (l *Ledger) AllBudgets(ctx context.Context) ([]model.Budget, error) {
	return l.queryBudgets(ctx, "all budgets",
		"SELECT "+budgetColumns+" FROM budgets ORDER BY created_at DESC, id DESC")
}

// ActiveBudgetForCategory returns the newest active budget of a category.
func (l *Ledger) ActiveBudgetForCategory(ctx context.Context, c model.Category) (model.Budget, error) {
	row := l.db.QueryRowContext(ctx, "SELECT "+budgetColumns+
		" FROM budgets WHERE active = 1 AND category = ? ORDER BY created_at DESC, id DESC LIMIT 1", string(c))
	b, err := scanBudget(row)
	if err != nil {
		return model.Budget{}, notFound("budget by category", "active budget for "+c.Label(), err)
	}
	return b, nil
}

// DeactivateBudget soft-deletes a budget.
func (l *Ledger) DeactivateBudget(ctx context.Context, id int64) error {
	res, err := l.db.ExecContext(ctx, "UPDATE budgets SET active = 0 WHERE id = ?", id)
	if err != nil {
		return apperr.Database("deactivate budget", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("deactivate budget", fmt.Sprintf("budget %d", id))
	}
	return nil
}

func (l *Ledger) queryBudgets(ctx context.Context, op, query string, args ...any) ([]model.Budget, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database(op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, apperr.Database(op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(op, err)
	}
	return out, nil
}

func scanBudget(sc scanner) (model.Budget, error) {
	var b model.Budget
	var category, period, start, end, created string
	var active int
	if err := sc.Scan(&b.ID, &category, &b.Limit, &period, &start, &end, &created, &active); err != nil {
		return model.Budget{}, err
	}
	b.Category = model.ParseCategory(category)
	b.Period, _ = model.ParseBudgetPeriod(period)
	b.StartDate = parseTime(start)
	b.EndDate = parseTime(end)
	b.CreatedAt = parseTime(created)
	b.Active = active == 1
	return b, nil
}
