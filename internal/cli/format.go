// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/spendlens/internal/model"
)

// DefaultCurrency is used when no symbol is configured.
const DefaultCurrency = "€"

// FormatMoney formats an amount with thousands separators and two decimals,
// e.g. 1234.5 -> "€1,234.50".
func FormatMoney(symbol string, amount float64) string {
	if symbol == "" {
		symbol = DefaultCurrency
	}
	if amount < 0 {
		return "-" + symbol + humanize.FormatFloat("#,###.##", -amount)
	}
	return symbol + humanize.FormatFloat("#,###.##", amount)
}

// FormatCompactMoney drops the decimals for large amounts, e.g. for cards.
func FormatCompactMoney(symbol string, amount float64) string {
	if math.Abs(amount) >= 10_000 {
		if symbol == "" {
			symbol = DefaultCurrency
		}
		return symbol + humanize.Comma(int64(math.Round(amount)))
	}
	return FormatMoney(symbol, amount)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-100 percentage, e.g. 84.6 -> "84.6%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a signed month-over-month percentage.
func FormatDelta(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTrend returns an arrow for a trend.
func FormatTrend(t model.Trend) string {
	switch t {
	case model.TrendIncreasing:
		return "↑"
	case model.TrendDecreasing:
		return "↓"
	default:
		return "→"
	}
}

// FormatDate formats a calendar date in the short form used in tables.
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 02, 2006")
}

// FormatAgo formats t relative to now, e.g. "3 hours ago".
func FormatAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// FormatOrdinal formats a day number, e.g. 1 -> "1st".
func FormatOrdinal(n int) string {
	return humanize.Ordinal(n)
}

// FormatWeekday maps 1 (Monday) through 7 (Sunday) to a 3-letter name.
func FormatWeekday(day int) string {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if day >= 1 && day <= 7 {
		return days[day-1]
	}
	return "???"
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}
