package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

// SummaryState records when each scheduled notification was last sent.
type SummaryState struct {
	Daily    time.Time `json:"daily"`
	Weekly   time.Time `json:"weekly"`
	Monthly  time.Time `json:"monthly"`
	Reminder time.Time `json:"reminder"`
}

// Mark records n as sent at its trigger date.
func (s *SummaryState) Mark(n model.Notification) {
	switch n.Type {
	case model.NotifyDailySummary:
		s.Daily = n.TriggerDate
	case model.NotifyWeeklySummary:
		s.Weekly = n.TriggerDate
	case model.NotifyMonthlySummary:
		s.Monthly = n.TriggerDate
	case model.NotifyReminder:
		s.Reminder = n.TriggerDate
	}
}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// slotDue reports whether today's slot at hhmm has passed and was not
// already served by last.
func slotDue(now time.Time, hhmm string, last time.Time) (bool, error) {
	slot, err := model.ClockOn(now, hhmm)
	if err != nil {
		return false, apperr.Validation("summary schedule", err)
	}
	return !now.Before(slot) && last.Before(slot), nil
}

// Summaries builds the scheduled summaries and the logging reminder that
// are due at now. The caller persists them and updates last with Mark.
func Summaries(ctx context.Context, src ExpenseSource, cfg model.NotificationConfig, now time.Time, last SummaryState) ([]model.Notification, error) {
	var out []model.Notification

	if cfg.DailySummaryEnabled {
		due, err := slotDue(now, cfg.DailySummaryTime, last.Daily)
		if err != nil {
			return nil, err
		}
		if due {
			n, err := dailySummary(ctx, src, now)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}

	if cfg.WeeklySummaryEnabled && isoWeekday(now) == cfg.WeeklySummaryDay {
		due, err := slotDue(now, cfg.WeeklySummaryTime, last.Weekly)
		if err != nil {
			return nil, err
		}
		if due {
			n, err := weeklySummary(ctx, src, now)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}

	if cfg.MonthlySummaryEnabled && now.Day() == min(cfg.MonthlySummaryDay, DaysInMonth(now)) {
		due, err := slotDue(now, cfg.MonthlySummaryTime, last.Monthly)
		if err != nil {
			return nil, err
		}
		if due {
			n, err := monthlySummary(ctx, src, now)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}

	if cfg.ReminderEnabled && cfg.ReminderFrequencyDays > 0 {
		n, ok, err := reminder(ctx, src, now, cfg.ReminderFrequencyDays, last.Reminder)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}

	return out, nil
}

func dailySummary(ctx context.Context, src ExpenseSource, now time.Time) (model.Notification, error) {
	expenses, err := src.ExpensesInRange(ctx, startOfDay(now), now)
	if err != nil {
		return model.Notification{}, apperr.WrapKind("daily summary", apperr.KindDatabase, err)
	}
	return model.NewNotification(model.NotifyDailySummary, model.PriorityLow,
		"Daily summary",
		fmt.Sprintf("Today you spent %.2f across %d expenses.", model.SumAmounts(expenses), len(expenses)),
		now, nil), nil
}

func weeklySummary(ctx context.Context, src ExpenseSource, now time.Time) (model.Notification, error) {
	start := now.AddDate(0, 0, -7)
	expenses, err := src.ExpensesInRange(ctx, start, now)
	if err != nil {
		return model.Notification{}, apperr.WrapKind("weekly summary", apperr.KindDatabase, err)
	}
	r := BuildReport(model.ReportWeekly, start, now, expenses)
	msg := fmt.Sprintf("Last 7 days: %.2f across %d expenses.", r.Total, r.Count)
	if len(r.Categories) > 0 {
		msg += fmt.Sprintf(" Top category: %s.", r.Categories[0].Category.Label())
	}
	return model.NewNotification(model.NotifyWeeklySummary, model.PriorityLow, "Weekly summary", msg, now, nil), nil
}

func monthlySummary(ctx context.Context, src ExpenseSource, now time.Time) (model.Notification, error) {
	month := PreviousMonth(now)
	start, end := MonthWindow(month)
	expenses, err := src.ExpensesInRange(ctx, start, end)
	if err != nil {
		return model.Notification{}, apperr.WrapKind("monthly summary", apperr.KindDatabase, err)
	}
	insight := BuildInsight(month, expenses, nil)
	msg := fmt.Sprintf("%s: you spent %.2f.", month.Format("January 2006"), insight.TotalSpent)
	if len(insight.Breakdown) > 0 {
		top := insight.Breakdown[0]
		msg += fmt.Sprintf(" Top category: %s (%d%%).", top.Category.Label(), int(top.Percentage))
	}
	return model.NewNotification(model.NotifyMonthlySummary, model.PriorityMedium, "Monthly summary", msg, now,
		map[string]string{"month": month.Format("2006-01")}), nil
}

func reminder(ctx context.Context, src ExpenseSource, now time.Time, days int, last time.Time) (model.Notification, bool, error) {
	since := now.AddDate(0, 0, -days)
	if last.After(since) {
		return model.Notification{}, false, nil
	}
	expenses, err := src.ExpensesInRange(ctx, since, now)
	if err != nil {
		return model.Notification{}, false, apperr.WrapKind("reminder", apperr.KindDatabase, err)
	}
	if len(expenses) > 0 {
		return model.Notification{}, false, nil
	}
	return model.NewNotification(model.NotifyReminder, model.PriorityLow,
		"Log your expenses",
		fmt.Sprintf("You haven't recorded an expense in %d days.", days),
		now, nil), true, nil
}
