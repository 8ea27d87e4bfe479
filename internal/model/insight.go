package model

import "time"

// Trend classifies a month-over-month change.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// CategorySpending is one row of a monthly category breakdown.
type CategorySpending struct {
	Category   Category
	Amount     float64
	Percentage float64
	Count      int
}

// SpendingComparison compares a month against the previous one.
type SpendingComparison struct {
	Previous       float64
	Current        float64
	Difference     float64
	PercentageDiff float64
	Trend          Trend
}

// MonthlyInsight summarizes a calendar month of spending.
type MonthlyInsight struct {
	Month        time.Time
	TotalSpent   float64
	Breakdown    []CategorySpending // sorted by amount, descending
	TopCategory  Category
	AverageDaily float64
	Comparison   *SpendingComparison // nil when the previous month total is 0

	MostExpensiveDay       *time.Time
	MostExpensiveDayAmount float64
}

// MonthlyPrediction is an average-based forecast for the current month.
// Confidence is a percentage in [0, 100].
type MonthlyPrediction struct {
	PredictedAmount   float64
	Confidence        float64
	BasedOnMonths     int
	TrailingTotals    []float64 // most recent month first
	CurrentMonthTotal float64
	Recommendation    string
}
