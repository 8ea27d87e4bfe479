package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := min(max(int(v/peak*float64(len(blocks)-1)), 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// CategoryValue is one row of a CategoryBars chart.
type CategoryValue struct {
	Category model.Category
	Label    string
	Value    float64
	Text     string // right-hand annotation, e.g. the formatted amount
}

// CategoryBars renders one horizontal bar per row, scaled to the largest
// value, within width columns.
func CategoryBars(rows []CategoryValue, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	peak := 0.0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		textW = max(textW, lipgloss.Width(r.Text))
		peak = max(peak, r.Value)
	}
	barMax := max(width-labelW-textW-2, 1)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for _, r := range rows {
		n := 0
		if peak > 0 {
			n = int(r.Value / peak * float64(barMax))
		}
		barStyle := lipgloss.NewStyle().Foreground(t.CategoryColor(r.Category)).Background(t.Surface)
		fmt.Fprintf(&b, "%s%s%s%s%s\n",
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, r.Label)),
			spaceStyle.Render(" "),
			barStyle.Render(strings.Repeat("█", n)),
			spaceStyle.Render(strings.Repeat(" ", barMax-n+1)),
			textStyle.Render(fmt.Sprintf("%*s", textW, r.Text)),
		)
	}
	return b.String()
}
