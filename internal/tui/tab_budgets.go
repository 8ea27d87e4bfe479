package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/tui/components"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

func (a App) renderBudgetsTab(cw int) string {
	t := theme.Active
	sym := a.currency()
	innerW := components.CardInnerWidth(cw)

	if len(a.data.Budgets) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No active budgets. Create one with `spendlens budget add`.")
		return components.ContentCard("Budgets", hint, cw)
	}

	labelW := 0
	for _, p := range a.data.Budgets {
		labelW = max(labelW, lipgloss.Width(p.Budget.Category.Label()))
	}
	barW := max(innerW-labelW-7, 10)

	detailStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i, p := range a.data.Budgets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.BudgetBar(p.Budget.Category.Label(), p.Percentage, p.Status, labelW, barW))
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(fmt.Sprintf("%*s %s of %s · %s left · %s %s–%s",
			labelW, "",
			cli.FormatMoney(sym, p.Spent),
			cli.FormatMoney(sym, p.Budget.Limit),
			cli.FormatMoney(sym, p.Remaining),
			strings.ToLower(string(p.Budget.Period)),
			p.Budget.StartDate.Format("Jan 2"),
			p.Budget.EndDate.Format("Jan 2, 2006"),
		)))
		b.WriteString("\n")
	}

	return components.ContentCard("Active Budgets", strings.TrimRight(b.String(), "\n"), cw)
}
