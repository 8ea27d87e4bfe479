package pipeline

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// stableBand is the month-over-month change, in percent, below which the
// trend is reported as stable.
const stableBand = 5.0

// BuildInsight summarizes one month of expenses. current must hold the
// month's expenses, previous the month before. An empty month yields a
// zero insight with no comparison.
func BuildInsight(month time.Time, current, previous []model.Expense) model.MonthlyInsight {
	start, _ := MonthWindow(month)
	insight := model.MonthlyInsight{
		Month:       start,
		TopCategory: model.CategoryOther,
	}
	if len(current) == 0 {
		return insight
	}

	total := model.SumAmounts(current)
	insight.TotalSpent = total
	insight.Breakdown = categoryBreakdown(current, total)
	insight.TopCategory = insight.Breakdown[0].Category
	insight.AverageDaily = total / float64(DaysInMonth(start))
	insight.Comparison = compareMonths(model.SumAmounts(previous), total)

	// Highest single day, by day of month. Ties go to the earlier day.
	byDay := make(map[int]float64)
	for _, e := range current {
		byDay[e.Date.In(start.Location()).Day()] += e.Amount
	}
	bestDay, bestAmount := 0, 0.0
	for day, amount := range byDay {
		if amount > bestAmount || (amount == bestAmount && day < bestDay) {
			bestDay, bestAmount = day, amount
		}
	}
	if bestDay > 0 {
		d := time.Date(start.Year(), start.Month(), bestDay, 0, 0, 0, 0, start.Location())
		insight.MostExpensiveDay = &d
		insight.MostExpensiveDayAmount = bestAmount
	}

	return insight
}

func categoryBreakdown(expenses []model.Expense, total float64) []model.CategorySpending {
	catMap := make(map[model.Category]*model.CategorySpending)
	for _, e := range expenses {
		cs, ok := catMap[e.Category]
		if !ok {
			cs = &model.CategorySpending{Category: e.Category}
			catMap[e.Category] = cs
		}
		cs.Amount += e.Amount
		cs.Count++
	}

	// Sort by amount descending, declaration order on ties
	rank := categoryRank()
	out := make([]model.CategorySpending, 0, len(catMap))
	for _, cs := range catMap {
		if total > 0 {
			cs.Percentage = cs.Amount / total * 100
		}
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return rank[out[i].Category] < rank[out[j].Category]
	})
	return out
}

func categoryRank() map[model.Category]int {
	rank := make(map[model.Category]int)
	for i, c := range model.Categories() {
		rank[c] = i
	}
	return rank
}

// compareMonths returns nil when there is nothing to compare against.
func compareMonths(previous, current float64) *model.SpendingComparison {
	if previous == 0 {
		return nil
	}
	diff := current - previous
	pct := diff / previous * 100

	trend := model.TrendDecreasing
	switch {
	case math.Abs(pct) < stableBand:
		trend = model.TrendStable
	case diff > 0:
		trend = model.TrendIncreasing
	}

	return &model.SpendingComparison{
		Previous:       previous,
		Current:        current,
		Difference:     diff,
		PercentageDiff: pct,
		Trend:          trend,
	}
}

// ComputeInsight loads month and the month before it concurrently and
// builds the insight.
func ComputeInsight(ctx context.Context, src ExpenseSource, month time.Time) (model.MonthlyInsight, error) {
	start, end := MonthWindow(month)
	prevStart, prevEnd := MonthWindow(PreviousMonth(month))

	var current, previous []model.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = src.ExpensesInRange(gctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = src.ExpensesInRange(gctx, prevStart, prevEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.MonthlyInsight{}, apperr.WrapKind("monthly insight", apperr.KindDatabase, err)
	}

	return BuildInsight(month, current, previous), nil
}
