package pipeline

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(time.Date(2024, time.February, 17, 9, 30, 0, 0, time.UTC))
	if want := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("start = %v, want %v", start, want)
	}
	if want := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC); !end.Equal(want) {
		t.Fatalf("end = %v, want %v", end, want)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		t    time.Time
		want int
	}{
		{time.Date(2023, time.February, 10, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.t); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", tt.t.Format("2006-01"), got, tt.want)
		}
	}
}

func TestPreviousMonth_AcrossYear(t *testing.T) {
	got := PreviousMonth(time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC))
	if want := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("PreviousMonth = %v, want %v", got, want)
	}
	got = MonthsBefore(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), 3)
	if want := time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("MonthsBefore(3) = %v, want %v", got, want)
	}
}
