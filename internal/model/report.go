package model

import "time"

// ReportPeriod selects the window of a spending report.
type ReportPeriod string

const (
	ReportDaily   ReportPeriod = "DAILY"
	ReportWeekly  ReportPeriod = "WEEKLY"
	ReportMonthly ReportPeriod = "MONTHLY"
	ReportYearly  ReportPeriod = "YEARLY"
	ReportAllTime ReportPeriod = "ALL_TIME"
	ReportCustom  ReportPeriod = "CUSTOM"
)

var reportPeriodLabels = map[ReportPeriod]string{
	ReportDaily:   "Today",
	ReportWeekly:  "Week",
	ReportMonthly: "Month",
	ReportYearly:  "Year",
	ReportAllTime: "All Time",
	ReportCustom:  "Custom Range",
}

// Label returns the display name of the period.
func (p ReportPeriod) Label() string {
	return reportPeriodLabels[p]
}

// ParseReportPeriod accepts the enum name in any case, with '-' for '_'.
func ParseReportPeriod(s string) (ReportPeriod, bool) {
	for p := range reportPeriodLabels {
		if normalizeEnum(s) == string(p) {
			return p, true
		}
	}
	return "", false
}

// CategoryStats holds per-category totals within a report.
type CategoryStats struct {
	Category   Category
	Total      float64
	Percentage float64
	Count      int
}

// DailyExpense holds the total for one local calendar day.
type DailyExpense struct {
	Date  time.Time
	Total float64
	Count int
}

// Report is a spending summary over an arbitrary window.
type Report struct {
	Period      ReportPeriod
	Start       time.Time
	End         time.Time
	Total       float64
	Count       int
	Categories  []CategoryStats
	DailyTrend  []DailyExpense // oldest first
	TopExpenses []Expense      // at most 10, largest first
}
