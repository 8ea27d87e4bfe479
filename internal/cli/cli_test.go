package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/spendlens/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol string
		amount float64
		want   string
	}{
		{"€", 0, "€0.00"},
		{"€", 12.5, "€12.50"},
		{"$", 1234.567, "$1,234.57"},
		{"", 1000000, "€1,000,000.00"},
		{"£", -42.1, "-£42.10"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.symbol, tt.amount); got != tt.want {
			t.Errorf("FormatMoney(%q, %v) = %q, want %q", tt.symbol, tt.amount, got, tt.want)
		}
	}
}

func TestFormatCompactMoney(t *testing.T) {
	if got := FormatCompactMoney("€", 12345.67); got != "€12,346" {
		t.Errorf("got %q", got)
	}
	if got := FormatCompactMoney("€", 99.9); got != "€99.90" {
		t.Errorf("got %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	if got := FormatDelta(12.34); got != "+12.3%" {
		t.Errorf("got %q", got)
	}
	if got := FormatDelta(-5); got != "-5.0%" {
		t.Errorf("got %q", got)
	}
}

func TestFormatAgoZero(t *testing.T) {
	if got := FormatAgo(time.Time{}); got != "never" {
		t.Errorf("got %q", got)
	}
	if got := FormatAgo(time.Now().Add(-3 * time.Hour)); !strings.Contains(got, "ago") {
		t.Errorf("got %q", got)
	}
}

func TestFormatWeekdayAndOrdinal(t *testing.T) {
	if FormatWeekday(1) != "Mon" || FormatWeekday(7) != "Sun" || FormatWeekday(0) != "???" {
		t.Error("unexpected weekday names")
	}
	if FormatOrdinal(1) != "1st" || FormatOrdinal(22) != "22nd" {
		t.Error("unexpected ordinals")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Grocery shopping", 8); got != "Grocery…" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("café", 10); got != "café" {
		t.Errorf("got %q", got)
	}
}

func TestRenderUsageBarBands(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	got := RenderUsageBar(50, 10)
	if !strings.HasPrefix(got, "█████░░░░░") || !strings.HasSuffix(got, "50.0%") {
		t.Errorf("half bar = %q", got)
	}
	over := RenderUsageBar(180, 10)
	if !strings.HasPrefix(over, strings.Repeat("█", 10)) {
		t.Errorf("over bar = %q", over)
	}
	if RenderUsageBar(50, 0) != "" {
		t.Error("zero width should render nothing")
	}
	if statusOf(69.9) != model.StatusOK || statusOf(100) != model.StatusWarning || statusOf(100.1) != model.StatusExceeded {
		t.Error("status bands")
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	if got := RenderHorizontalBar("Food", 50, 100, 10); got != "  █████ Food" {
		t.Errorf("half bar = %q", got)
	}
	if got := RenderHorizontalBar("Food", 100, 100, 10); got != "  "+strings.Repeat("█", 10)+" Food" {
		t.Errorf("full bar = %q", got)
	}
	if got := RenderHorizontalBar("Food", 5, 0, 10); got != "  Food" {
		t.Errorf("zero max = %q", got)
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"Food", "€12.00"},
			{"---"},
			{"Total", "€1,012.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := lipgloss.Width(lines[0])
	for _, l := range lines {
		if lipgloss.Width(l) != width {
			t.Fatalf("ragged table line %q (want width %d)\n%s", l, width, out)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Errorf("got %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty series")
	}
}
