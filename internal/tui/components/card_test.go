package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{80, 81, 119, 180} {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup: short card should be shorter than tall card")
	}

	// Short card first, so padding below it is the start of each line.
	joined := CardRow([]string{shortCard, tallCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i := shortLines; i < len(lines); i++ {
		if !strings.HasPrefix(lines[i], "\x1b[") {
			t.Errorf("padding line %d starts unstyled: %q", i, lines[i])
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Spent", Value: "€1,240.00", Delta: "+12.0%"},
		{Label: "Budgets", Value: "3"},
		{Label: "Forecast", Value: "€1,900.00", Color: theme.Active.Orange},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Fatalf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestBudgetBarClampsAndLabels(t *testing.T) {
	bar := BudgetBar("Food", 150, model.StatusExceeded, 10, 20)
	if !strings.Contains(bar, "150%") {
		t.Fatalf("bar %q should show the unclamped percentage", bar)
	}
	if !strings.Contains(bar, "Food") {
		t.Fatalf("bar %q should include the label", bar)
	}
}

func TestCategoryBars(t *testing.T) {
	out := CategoryBars([]CategoryValue{
		{Category: model.CategoryFood, Label: "Food", Value: 300, Text: "€300.00"},
		{Category: model.CategoryUtilities, Label: "Utilities", Value: 100, Text: "€100.00"},
	}, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Fatalf("largest category should have the longest bar:\n%s", out)
	}
}

func TestSparklineEmpty(t *testing.T) {
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Fatal("empty sparkline should render nothing")
	}
}
