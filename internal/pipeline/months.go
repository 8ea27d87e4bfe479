package pipeline

import "time"

// MonthWindow returns the first instant and the last second of t's calendar
// month, in t's location.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	end := time.Date(y, m, DaysInMonth(t), 23, 59, 59, 0, t.Location())
	return start, end
}

// DaysInMonth returns the number of days in t's calendar month.
func DaysInMonth(t time.Time) int {
	y, m, _ := t.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// PreviousMonth returns the first day of the month before t's.
func PreviousMonth(t time.Time) time.Time {
	return MonthsBefore(t, 1)
}

// MonthsBefore returns the first day of the month n months before t's.
func MonthsBefore(t time.Time, n int) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
