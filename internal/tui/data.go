package tui

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

// notificationLimit caps the notifications tab list.
const notificationLimit = 100

// Source is the ledger the dashboard reads and updates.
type Source interface {
	pipeline.LedgerSource
	pipeline.BudgetSource
	Notifications(ctx context.Context, limit int, unreadOnly bool) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) (int64, error)
}

// Dashboard is everything the tabs render, loaded in one pass.
type Dashboard struct {
	Month         time.Time
	Insight       model.MonthlyInsight
	Prediction    model.MonthlyPrediction
	Daily         []float64 // one total per day of the month so far
	Budgets       []model.BudgetProgress
	Notifications []model.Notification
}

// Unread counts unread notifications.
func (d Dashboard) Unread() int {
	n := 0
	for _, nt := range d.Notifications {
		if !nt.Read {
			n++
		}
	}
	return n
}

// LoadDashboard reads the current month's insight, forecast, budgets and
// notifications concurrently.
func LoadDashboard(ctx context.Context, src Source, now time.Time) (Dashboard, error) {
	d := Dashboard{Month: now}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		insight, err := pipeline.ComputeInsight(ctx, src, now)
		d.Insight = insight
		return err
	})
	g.Go(func() error {
		p, err := pipeline.Predict(ctx, src, now)
		d.Prediction = p
		return err
	})
	g.Go(func() error {
		start, _ := pipeline.MonthWindow(now)
		expenses, err := src.ExpensesInRange(ctx, start, now)
		if err != nil {
			return err
		}
		d.Daily = dailySeries(pipeline.BuildReport(model.ReportMonthly, start, now, expenses).DailyTrend, start, now)
		return nil
	})
	g.Go(func() error {
		budgets, err := src.ActiveBudgets(ctx)
		if err != nil {
			return err
		}
		for _, b := range budgets {
			p, err := pipeline.ProgressFor(ctx, src, b)
			if err != nil {
				return err
			}
			d.Budgets = append(d.Budgets, p)
		}
		return nil
	})
	g.Go(func() error {
		ns, err := src.Notifications(ctx, notificationLimit, false)
		d.Notifications = ns
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}

// dailySeries expands a sparse daily trend into one value per day from
// start through now, with zero for days without expenses.
func dailySeries(trend []model.DailyExpense, start, now time.Time) []float64 {
	days := now.YearDay() - start.YearDay() + 1
	if now.Year() != start.Year() || days < 1 {
		days = 1
	}
	out := make([]float64, days)
	for _, d := range trend {
		i := d.Date.YearDay() - start.YearDay()
		if d.Date.Year() == start.Year() && i >= 0 && i < days {
			out[i] += d.Total
		}
	}
	return out
}
