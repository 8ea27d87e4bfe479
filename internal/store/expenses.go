package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

const expenseColumns = `id, amount, category, description, date, merchant,
	receipt_image_path, tags, notes, created_at, updated_at`

// SaveExpense validates and inserts or replaces an expense by id.
func (l *Ledger) SaveExpense(ctx context.Context, e model.Expense) error {
	if err := e.Validate(); err != nil {
		return apperr.Validation("save expense", err)
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return apperr.Wrap("save expense", err)
	}

	_, err = l.db.ExecContext(ctx, `INSERT OR REPLACE INTO expenses
		(`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Amount, string(e.Category), e.Description, formatTime(e.Date), e.Merchant,
		e.ReceiptImagePath, string(tagsJSON), e.Notes, formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return apperr.Database("save expense", err)
	}
	return nil
}

// ExpenseByID returns one expense or a not-found error.
func (l *Ledger) ExpenseByID(ctx context.Context, id string) (model.Expense, error) {
	row := l.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err != nil {
		return model.Expense{}, notFound("expense by id", "expense "+id, err)
	}
	return e, nil
}

// DeleteExpense removes an expense by id.
func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return apperr.Database("delete expense", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("delete expense", "expense "+id)
	}
	return nil
}

// AllExpenses returns every expense, newest first.
func (l *Ledger) AllExpenses(ctx context.Context) ([]model.Expense, error) {
	return l.queryExpenses(ctx, "all expenses",
		"SELECT "+expenseColumns+" FROM expenses ORDER BY date DESC")
}

// ExpensesInRange returns expenses dated within [start, end], newest first.
func (l *Ledger) ExpensesInRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	return l.queryExpenses(ctx, "expenses in range",
		"SELECT "+expenseColumns+" FROM expenses WHERE date >= ? AND date <= ? ORDER BY date DESC",
		formatTime(start), formatTime(end))
}

// ExpensesByCategoryInRange returns one category's expenses dated within
// [start, end], newest first.
func (l *Ledger) ExpensesByCategoryInRange(ctx context.Context, category model.Category, start, end time.Time) ([]model.Expense, error) {
	return l.queryExpenses(ctx, "expenses by category",
		"SELECT "+expenseColumns+" FROM expenses WHERE category = ? AND date >= ? AND date <= ? ORDER BY date DESC",
		string(category), formatTime(start), formatTime(end))
}

// SearchExpenses matches query against description, merchant and notes.
func (l *Ledger) SearchExpenses(ctx context.Context, query string) ([]model.Expense, error) {
	return l.queryExpenses(ctx, "search expenses",
		`SELECT `+expenseColumns+` FROM expenses
		WHERE description LIKE '%' || ? || '%'
		   OR merchant LIKE '%' || ? || '%'
		   OR notes LIKE '%' || ? || '%'
		ORDER BY date DESC`,
		query, query, query)
}

// LatestExpenseDate returns the date of the newest expense.
func (l *Ledger) LatestExpenseDate(ctx context.Context) (time.Time, bool, error) {
	var s sql.NullString
	if err := l.db.QueryRowContext(ctx, "SELECT MAX(date) FROM expenses").Scan(&s); err != nil {
		return time.Time{}, false, apperr.Database("latest expense", err)
	}
	if !s.Valid || s.String == "" {
		return time.Time{}, false, nil
	}
	return parseTime(s.String), true, nil
}

// ExpenseCount returns the number of stored expenses.
func (l *Ledger) ExpenseCount(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses").Scan(&n); err != nil {
		return 0, apperr.Database("expense count", err)
	}
	return n, nil
}

func (l *Ledger) queryExpenses(ctx context.Context, op, query string, args ...any) ([]model.Expense, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database(op, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, apperr.Database(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database(op, err)
	}
	return out, nil
}

func scanExpense(sc scanner) (model.Expense, error) {
	var e model.Expense
	var category, date, tags, createdAt, updatedAt string
	if err := sc.Scan(&e.ID, &e.Amount, &category, &e.Description, &date, &e.Merchant,
		&e.ReceiptImagePath, &tags, &e.Notes, &createdAt, &updatedAt); err != nil {
		return model.Expense{}, err
	}
	e.Category = model.ParseCategory(category)
	e.Date = parseTime(date)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	if tags != "" && tags != "[]" {
		_ = json.Unmarshal([]byte(tags), &e.Tags)
	}
	return e, nil
}
