package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

func TestReportWindow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		period    model.ReportPeriod
		wantStart time.Time
	}{
		{model.ReportDaily, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{model.ReportWeekly, time.Date(2024, time.March, 8, 14, 30, 0, 0, time.UTC)},
		{model.ReportMonthly, time.Date(2024, time.February, 15, 14, 30, 0, 0, time.UTC)},
		{model.ReportYearly, time.Date(2023, time.March, 15, 14, 30, 0, 0, time.UTC)},
		{model.ReportAllTime, time.Unix(0, 0)},
	}
	for _, tt := range tests {
		start, end := ReportWindow(tt.period, now, time.Time{}, time.Time{})
		if !start.Equal(tt.wantStart) {
			t.Errorf("%s start = %v, want %v", tt.period, start, tt.wantStart)
		}
		if !end.Equal(now) {
			t.Errorf("%s end = %v, want now", tt.period, end)
		}
	}
}

func TestReportWindow_Custom(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	start, end := ReportWindow(model.ReportCustom, now, from, to)
	if !start.Equal(from) || !end.Equal(to) {
		t.Fatalf("custom window = %v..%v, want %v..%v", start, end, from, to)
	}
	start, end = ReportWindow(model.ReportCustom, now, time.Time{}, time.Time{})
	if !start.Equal(time.Unix(0, 0)) || !end.Equal(now) {
		t.Fatalf("open custom window = %v..%v, want epoch..now", start, end)
	}
}

func TestBuildReport(t *testing.T) {
	var expenses []model.Expense
	for i := 1; i <= 12; i++ {
		expenses = append(expenses, exp(float64(i), model.CategoryShopping, day(2024, time.March, i)))
	}
	expenses = append(expenses, exp(50, model.CategoryFood, day(2024, time.March, 1)))

	r := BuildReport(model.ReportMonthly, day(2024, time.March, 1), day(2024, time.March, 31), expenses)

	if r.Total != 128 || r.Count != 13 {
		t.Fatalf("Total/Count = %v/%d, want 128/13", r.Total, r.Count)
	}
	if len(r.Categories) != 2 || r.Categories[0].Category != model.CategoryShopping || r.Categories[0].Total != 78 {
		t.Fatalf("Categories = %+v, want SHOPPING 78 first", r.Categories)
	}
	if len(r.TopExpenses) != TopExpenseCount {
		t.Fatalf("TopExpenses has %d entries, want %d", len(r.TopExpenses), TopExpenseCount)
	}
	if r.TopExpenses[0].Amount != 50 || r.TopExpenses[1].Amount != 12 {
		t.Fatalf("TopExpenses not sorted by amount: %v, %v", r.TopExpenses[0].Amount, r.TopExpenses[1].Amount)
	}
	if len(r.DailyTrend) != 12 {
		t.Fatalf("DailyTrend has %d days, want 12", len(r.DailyTrend))
	}
	first := r.DailyTrend[0]
	if first.Date.Day() != 1 || first.Total != 51 || first.Count != 2 {
		t.Fatalf("DailyTrend[0] = %+v, want March 1 with 51 over 2", first)
	}
	for i := 1; i < len(r.DailyTrend); i++ {
		if !r.DailyTrend[i-1].Date.Before(r.DailyTrend[i].Date) {
			t.Fatalf("DailyTrend not ascending at %d", i)
		}
	}
}

func TestGenerateReport(t *testing.T) {
	now := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local)
	ledger := &memLedger{expenses: []model.Expense{
		exp(10, model.CategoryFood, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local)),
		exp(20, model.CategoryFood, time.Date(2024, time.March, 14, 9, 0, 0, 0, time.Local)),
	}}
	r, err := GenerateReport(context.Background(), ledger, model.ReportDaily, now, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if r.Total != 10 || r.Count != 1 {
		t.Fatalf("daily report = %v over %d, want 10 over 1", r.Total, r.Count)
	}
}
