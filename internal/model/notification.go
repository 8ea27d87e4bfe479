package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what produced a notification.
type NotificationType string

const (
	NotifyBudgetAlert     NotificationType = "BUDGET_ALERT"
	NotifyBudgetExceeded  NotificationType = "BUDGET_EXCEEDED"
	NotifyDailySummary    NotificationType = "DAILY_SUMMARY"
	NotifyWeeklySummary   NotificationType = "WEEKLY_SUMMARY"
	NotifyMonthlySummary  NotificationType = "MONTHLY_SUMMARY"
	NotifyInsightAlert    NotificationType = "INSIGHT_ALERT"
	NotifySpendingSpike   NotificationType = "SPENDING_SPIKE"
	NotifyCategoryWarning NotificationType = "CATEGORY_WARNING"
	NotifyReminder        NotificationType = "REMINDER"
)

// Priority orders notifications by urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Rank returns 0 for LOW through 3 for URGENT.
func (p Priority) Rank() int {
	switch p {
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return 0
}

// Notification is an append-only record handed to notification sinks.
type Notification struct {
	ID          string
	Title       string
	Message     string
	Type        NotificationType
	Priority    Priority
	TriggerDate time.Time
	Read        bool
	ActionData  map[string]string
}

// NewNotification returns an unread notification with a fresh id.
func NewNotification(typ NotificationType, priority Priority, title, message string, at time.Time, data map[string]string) Notification {
	return Notification{
		ID:          uuid.New().String(),
		Title:       title,
		Message:     message,
		Type:        typ,
		Priority:    priority,
		TriggerDate: at,
		ActionData:  data,
	}
}

// BudgetAlert is emitted for a budget that crossed its alert threshold.
type BudgetAlert struct {
	Budget   Budget
	Progress BudgetProgress
	Message  string
	Severity Priority
}

// AlertCheckResult aggregates one evaluation run.
type AlertCheckResult struct {
	BudgetAlerts    []BudgetAlert
	InsightAlerts   []Notification
	HasUrgentAlerts bool
}
