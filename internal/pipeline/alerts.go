package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// Fixed insight heuristics.
const (
	concentrationPct   = 40.0
	highSpendDayFactor = 3.0
)

// AlertEvaluator checks budgets and the current month's insight against a
// NotificationConfig and hands the resulting notifications to Sink.
type AlertEvaluator struct {
	Budgets  BudgetSource
	Expenses LedgerSource
	Sink     NotificationSink
	Logger   *slog.Logger
	Now      func() time.Time
}

func (e *AlertEvaluator) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *AlertEvaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// CheckBudgets evaluates every active budget. A budget whose progress
// cannot be computed is logged and skipped.
func (e *AlertEvaluator) CheckBudgets(ctx context.Context, cfg model.NotificationConfig) (model.AlertCheckResult, error) {
	var result model.AlertCheckResult
	if !cfg.BudgetAlertsEnabled {
		return result, nil
	}

	budgets, err := e.Budgets.ActiveBudgets(ctx)
	if err != nil {
		return result, apperr.WrapKind("check budgets", apperr.KindDatabase, err)
	}

	now := e.now()
	for _, b := range budgets {
		progress, err := ProgressFor(ctx, e.Expenses, b)
		if err != nil {
			e.logger().Warn("budget progress failed", "budget_id", b.ID, "category", b.Category, "error", err)
			continue
		}

		alert, n, ok := BudgetAlertFor(progress, cfg, now)
		if !ok {
			continue
		}
		result.BudgetAlerts = append(result.BudgetAlerts, alert)
		if alert.Severity == model.PriorityUrgent {
			result.HasUrgentAlerts = true
		}
		e.save(ctx, n)
	}

	return result, nil
}

// BudgetAlertFor decides whether a budget's progress warrants an alert. An
// exceeded budget always alerts; a budget in the warning band alerts once
// its usage reaches the configured threshold.
func BudgetAlertFor(p model.BudgetProgress, cfg model.NotificationConfig, now time.Time) (model.BudgetAlert, model.Notification, bool) {
	label := p.Budget.Category.Label()
	pct := int(p.Percentage)
	data := map[string]string{
		"budgetId": strconv.FormatInt(p.Budget.ID, 10),
		"category": string(p.Budget.Category),
	}

	switch {
	case p.Status == model.StatusExceeded:
		alert := model.BudgetAlert{
			Budget:   p.Budget,
			Progress: p,
			Message:  fmt.Sprintf("%s budget exceeded! You have spent %d%% of the limit.", label, pct),
			Severity: model.PriorityUrgent,
		}
		n := model.NewNotification(model.NotifyBudgetExceeded, model.PriorityUrgent,
			"Budget exceeded",
			fmt.Sprintf("You went %d%% over your %s budget.", pct-100, label),
			now, data)
		return alert, n, true

	case p.Status == model.StatusWarning && p.Percentage >= cfg.BudgetAlertThreshold*100:
		alert := model.BudgetAlert{
			Budget:   p.Budget,
			Progress: p,
			Message:  fmt.Sprintf("Heads up! You have used %d%% of the %s budget.", pct, label),
			Severity: model.PriorityHigh,
		}
		n := model.NewNotification(model.NotifyBudgetAlert, model.PriorityHigh,
			"Budget alert",
			fmt.Sprintf("You have used %d%% of your %s budget.", pct, label),
			now, data)
		return alert, n, true
	}

	return model.BudgetAlert{}, model.Notification{}, false
}

// CheckInsights evaluates the insight heuristics for the current month.
// A failure to compute the insight yields no alerts rather than an error.
func (e *AlertEvaluator) CheckInsights(ctx context.Context, cfg model.NotificationConfig) ([]model.Notification, error) {
	if !cfg.InsightAlertsEnabled {
		return nil, nil
	}

	now := e.now()
	insight, err := ComputeInsight(ctx, e.Expenses, now)
	if err != nil {
		e.logger().Warn("insight unavailable, skipping insight alerts", "error", err)
		return nil, nil
	}

	alerts := InsightAlerts(insight, cfg, now)
	for _, n := range alerts {
		e.save(ctx, n)
	}
	return alerts, nil
}

// InsightAlerts applies the spike, concentration and high-spend-day
// heuristics independently.
func InsightAlerts(insight model.MonthlyInsight, cfg model.NotificationConfig, now time.Time) []model.Notification {
	var out []model.Notification

	if c := insight.Comparison; c != nil && c.Trend == model.TrendIncreasing &&
		c.PercentageDiff >= (cfg.SpendingSpikeSensitivity-1)*100 {
		out = append(out, model.NewNotification(model.NotifySpendingSpike, model.PriorityMedium,
			"Spending spike",
			fmt.Sprintf("Your spending is up %d%% compared to last month.", int(c.PercentageDiff)),
			now, map[string]string{
				"screen":             "insights",
				"increasePercentage": strconv.Itoa(int(c.PercentageDiff)),
			}))
	}

	if len(insight.Breakdown) > 0 && insight.Breakdown[0].Percentage >= concentrationPct {
		top := insight.Breakdown[0]
		out = append(out, model.NewNotification(model.NotifyCategoryWarning, model.PriorityLow,
			"Spending concentrated",
			fmt.Sprintf("%s accounts for %d%% of your spending this month.", top.Category.Label(), int(top.Percentage)),
			now, map[string]string{
				"category":   string(top.Category),
				"percentage": strconv.Itoa(int(top.Percentage)),
			}))
	}

	if d := insight.MostExpensiveDay; d != nil && insight.AverageDaily > 0 &&
		insight.MostExpensiveDayAmount >= insight.AverageDaily*highSpendDayFactor {
		out = append(out, model.NewNotification(model.NotifyInsightAlert, model.PriorityLow,
			"High-spend day",
			fmt.Sprintf("You spent %.2f on %s, well above your daily average of %.2f.",
				insight.MostExpensiveDayAmount, d.Format("Jan 2"), insight.AverageDaily),
			now, map[string]string{
				"date":   d.Format("2006-01-02"),
				"amount": strconv.FormatFloat(insight.MostExpensiveDayAmount, 'f', 2, 64),
			}))
	}

	return out
}

// CheckAll runs the budget and insight checks and merges their results.
func (e *AlertEvaluator) CheckAll(ctx context.Context, cfg model.NotificationConfig) (model.AlertCheckResult, error) {
	result, err := e.CheckBudgets(ctx, cfg)
	if err != nil {
		return model.AlertCheckResult{}, err
	}
	insights, err := e.CheckInsights(ctx, cfg)
	if err != nil {
		return model.AlertCheckResult{}, err
	}
	result.InsightAlerts = insights
	return result, nil
}

// save forwards n to the sink. Sink failures are logged, not returned.
func (e *AlertEvaluator) save(ctx context.Context, n model.Notification) {
	if e.Sink == nil {
		return
	}
	if err := e.Sink.SaveNotification(ctx, n); err != nil {
		e.logger().Warn("saving notification failed", "type", n.Type, "error", err)
	}
}
