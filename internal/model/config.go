package model

import (
	"fmt"
	"time"
)

// NotificationConfig holds the alerting thresholds and schedule flags.
// The evaluators only read it; a snapshot is taken per evaluation.
type NotificationConfig struct {
	BudgetAlertsEnabled  bool    `toml:"budget_alerts_enabled"`
	BudgetAlertThreshold float64 `toml:"budget_alert_threshold"` // fraction of the limit, 0.8 = 80%

	InsightAlertsEnabled     bool    `toml:"insight_alerts_enabled"`
	SpendingSpikeSensitivity float64 `toml:"spending_spike_sensitivity"` // 1.5 = 50% month-over-month increase

	DailySummaryEnabled bool   `toml:"daily_summary_enabled"`
	DailySummaryTime    string `toml:"daily_summary_time"`

	WeeklySummaryEnabled bool   `toml:"weekly_summary_enabled"`
	WeeklySummaryDay     int    `toml:"weekly_summary_day"` // 1 = Monday ... 7 = Sunday
	WeeklySummaryTime    string `toml:"weekly_summary_time"`

	MonthlySummaryEnabled bool   `toml:"monthly_summary_enabled"`
	MonthlySummaryDay     int    `toml:"monthly_summary_day"`
	MonthlySummaryTime    string `toml:"monthly_summary_time"`

	ReminderEnabled       bool `toml:"reminder_enabled"`
	ReminderFrequencyDays int  `toml:"reminder_frequency_days"`
}

// DefaultNotificationConfig returns the stock alert settings.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		BudgetAlertsEnabled:      true,
		BudgetAlertThreshold:     0.8,
		InsightAlertsEnabled:     true,
		SpendingSpikeSensitivity: 1.5,
		DailySummaryEnabled:      false,
		DailySummaryTime:         "20:00",
		WeeklySummaryEnabled:     true,
		WeeklySummaryDay:         1,
		WeeklySummaryTime:        "09:00",
		MonthlySummaryEnabled:    true,
		MonthlySummaryDay:        1,
		MonthlySummaryTime:       "10:00",
		ReminderEnabled:          false,
		ReminderFrequencyDays:    3,
	}
}

// ParseClock parses an "HH:mm" time of day.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q (want HH:mm)", s)
	}
	return t.Hour(), t.Minute(), nil
}

// ClockOn returns the given "HH:mm" on day's date in day's location.
func ClockOn(day time.Time, hhmm string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), nil
}
