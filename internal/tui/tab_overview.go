package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
	"github.com/theirongolddev/spendlens/internal/tui/components"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	in := a.data.Insight
	pred := a.data.Prediction
	sym := a.currency()
	var b strings.Builder

	// Row 1: Metric cards
	spentDelta := "no data for last month"
	spentColor := lipgloss.Color("")
	if c := in.Comparison; c != nil {
		spentDelta = fmt.Sprintf("%s %s vs last month", cli.FormatTrend(c.Trend), cli.FormatDelta(c.PercentageDiff))
		if c.Trend == model.TrendIncreasing {
			spentColor = t.Orange
		}
	}

	forecastColor := lipgloss.Color("")
	if pred.Recommendation == pipeline.RecommendCaution {
		forecastColor = t.Red
	}
	forecastDelta := fmt.Sprintf("%.0f%% confidence", pred.Confidence)
	if pred.BasedOnMonths == 0 {
		forecastDelta = "needs history"
	}

	exceeded := 0
	for _, p := range a.data.Budgets {
		if p.Status == model.StatusExceeded {
			exceeded++
		}
	}
	budgetColor := lipgloss.Color("")
	budgetDelta := "all on track"
	if exceeded > 0 {
		budgetColor = t.Red
		budgetDelta = fmt.Sprintf("%d exceeded", exceeded)
	}

	cards := []components.Metric{
		{Label: "Spent " + in.Month.Format("Jan"), Value: cli.FormatCompactMoney(sym, in.TotalSpent), Delta: spentDelta, Color: spentColor},
		{Label: "Daily average", Value: cli.FormatMoney(sym, in.AverageDaily), Delta: "top: " + in.TopCategory.Label()},
		{Label: "Forecast", Value: cli.FormatCompactMoney(sym, pred.PredictedAmount), Delta: forecastDelta, Color: forecastColor},
		{Label: "Budgets", Value: fmt.Sprintf("%d", len(a.data.Budgets)), Delta: budgetDelta, Color: budgetColor},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(cards[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(cards[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(cards, cw))
	}
	b.WriteString("\n")

	// Row 2: Daily spending sparkline
	if len(a.data.Daily) > 0 {
		mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		body := components.Sparkline(a.data.Daily, t.Accent) + "\n" +
			mutedStyle.Render(fmt.Sprintf("1 → %d", len(a.data.Daily)))
		if in.MostExpensiveDay != nil {
			body += mutedStyle.Render(fmt.Sprintf("   peak %s on %s",
				cli.FormatMoney(sym, in.MostExpensiveDayAmount), in.MostExpensiveDay.Format("Jan 2")))
		}
		b.WriteString(components.ContentCard("Daily Spending", body, cw))
		b.WriteString("\n")
	}

	// Row 3: Category breakdown + recommendation
	rows := make([]components.CategoryValue, 0, len(in.Breakdown))
	for _, c := range in.Breakdown {
		rows = append(rows, components.CategoryValue{
			Category: c.Category,
			Label:    c.Category.Label(),
			Value:    c.Amount,
			Text:     fmt.Sprintf("%s %5.1f%%", cli.FormatMoney(sym, c.Amount), c.Percentage),
		})
	}
	halves := components.LayoutRow(cw, 2)
	catW, recW := halves[0], halves[1]
	if a.isCompactLayout() {
		catW, recW = cw, cw
	}

	catBody := components.CategoryBars(rows, components.CardInnerWidth(catW))
	if catBody == "" {
		catBody = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No expenses recorded this month.")
	}
	catCard := components.ContentCard("By Category", strings.TrimRight(catBody, "\n"), catW)
	recCard := components.ContentCard("Outlook", a.renderRecommendation(components.CardInnerWidth(recW)), recW)

	if a.isCompactLayout() {
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(recCard)
	} else {
		b.WriteString(components.CardRow([]string{catCard, recCard}))
	}

	return b.String()
}

func (a App) renderRecommendation(width int) string {
	t := theme.Active
	pred := a.data.Prediction
	sym := a.currency()

	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(width)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(textStyle.Render(pred.Recommendation))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n",
		mutedStyle.Render("Month to date:"),
		textStyle.Inline(true).Render(cli.FormatMoney(sym, pred.CurrentMonthTotal)))
	for i, total := range pred.TrailingTotals {
		month := pipeline.MonthsBefore(a.data.Month, i+1)
		fmt.Fprintf(&b, "%s %s\n",
			mutedStyle.Render(fmt.Sprintf("%-14s", month.Format("January")+":")),
			textStyle.Inline(true).Render(cli.FormatMoney(sym, total)))
	}
	return strings.TrimRight(b.String(), "\n")
}
