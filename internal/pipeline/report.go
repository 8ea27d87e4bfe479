package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// TopExpenseCount bounds Report.TopExpenses.
const TopExpenseCount = 10

// ReportWindow resolves a report period to a [start, end] range ending at
// now. customStart and customEnd are only used for the custom period; a zero
// start means the Unix epoch and a zero end means now.
func ReportWindow(period model.ReportPeriod, now, customStart, customEnd time.Time) (time.Time, time.Time) {
	switch period {
	case model.ReportDaily:
		return startOfDay(now), now
	case model.ReportWeekly:
		return now.AddDate(0, 0, -7), now
	case model.ReportMonthly:
		return now.AddDate(0, -1, 0), now
	case model.ReportYearly:
		return now.AddDate(-1, 0, 0), now
	case model.ReportCustom:
		start, end := customStart, customEnd
		if start.IsZero() {
			start = time.Unix(0, 0)
		}
		if end.IsZero() {
			end = now
		}
		return start, end
	default:
		return time.Unix(0, 0), now
	}
}

// BuildReport aggregates expenses already filtered to [start, end].
func BuildReport(period model.ReportPeriod, start, end time.Time, expenses []model.Expense) model.Report {
	r := model.Report{
		Period: period,
		Start:  start,
		End:    end,
		Total:  model.SumAmounts(expenses),
		Count:  len(expenses),
	}

	for _, cs := range categoryBreakdown(expenses, r.Total) {
		r.Categories = append(r.Categories, model.CategoryStats{
			Category:   cs.Category,
			Total:      cs.Amount,
			Percentage: cs.Percentage,
			Count:      cs.Count,
		})
	}

	r.DailyTrend = dailyTrend(expenses)

	top := append([]model.Expense(nil), expenses...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount > top[j].Amount
	})
	if len(top) > TopExpenseCount {
		top = top[:TopExpenseCount]
	}
	r.TopExpenses = top

	return r
}

func dailyTrend(expenses []model.Expense) []model.DailyExpense {
	dayMap := make(map[string]*model.DailyExpense)
	for _, e := range expenses {
		dayKey := e.Date.Local().Format("2006-01-02")
		de, ok := dayMap[dayKey]
		if !ok {
			t, _ := time.ParseInLocation("2006-01-02", dayKey, time.Local)
			de = &model.DailyExpense{Date: t}
			dayMap[dayKey] = de
		}
		de.Total += e.Amount
		de.Count++
	}

	days := make([]model.DailyExpense, 0, len(dayMap))
	for _, de := range dayMap {
		days = append(days, *de)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// GenerateReport loads the period's expenses and aggregates them.
func GenerateReport(ctx context.Context, src ExpenseSource, period model.ReportPeriod, now, customStart, customEnd time.Time) (model.Report, error) {
	start, end := ReportWindow(period, now, customStart, customEnd)
	expenses, err := src.ExpensesInRange(ctx, start, end)
	if err != nil {
		return model.Report{}, apperr.WrapKind("report", apperr.KindDatabase, err)
	}
	return BuildReport(period, start, end, expenses), nil
}
