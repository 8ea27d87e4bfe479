package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/tui/components"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// settingsState tracks the settings tab state.
type settingsState struct {
	saved   bool  // flash "saved" after a theme change
	saveErr error // non-nil if last save failed
}

// cycleTheme switches to the next theme and persists it.
func (a App) cycleTheme() App {
	next := theme.Next(a.cfg.Appearance.Theme)
	a.cfg.Appearance.Theme = next.Name
	theme.SetActive(next.Name)
	a.settings.saveErr = config.Save(a.cfg)
	a.settings.saved = a.settings.saveErr == nil
	return a
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	n := a.cfg.Notifications

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(rows [][2]string) string {
		var b strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&b, "%s %s\n",
				labelStyle.Render(fmt.Sprintf("%-26s", r[0])),
				valueStyle.Render(r[1]))
		}
		return strings.TrimRight(b.String(), "\n")
	}

	general := section([][2]string{
		{"Ledger", config.DBPath(a.cfg)},
		{"Region", string(config.Region(a.cfg))},
		{"Currency", a.currency()},
		{"Theme", a.cfg.Appearance.Theme},
	})

	alerts := section([][2]string{
		{"Budget alerts", fmt.Sprintf("%s at %.0f%%", onOff(n.BudgetAlertsEnabled), n.BudgetAlertThreshold*100)},
		{"Insight alerts", fmt.Sprintf("%s, spike ×%.1f", onOff(n.InsightAlertsEnabled), n.SpendingSpikeSensitivity)},
		{"Daily summary", fmt.Sprintf("%s at %s", onOff(n.DailySummaryEnabled), n.DailySummaryTime)},
		{"Weekly summary", fmt.Sprintf("%s, %s %s", onOff(n.WeeklySummaryEnabled), cli.FormatWeekday(n.WeeklySummaryDay), n.WeeklySummaryTime)},
		{"Monthly summary", fmt.Sprintf("%s, %s at %s", onOff(n.MonthlySummaryEnabled), cli.FormatOrdinal(n.MonthlySummaryDay), n.MonthlySummaryTime)},
		{"Logging reminder", fmt.Sprintf("%s after %d days", onOff(n.ReminderEnabled), n.ReminderFrequencyDays)},
	})

	hint := "t cycle theme · edit " + config.Path() + " or run `spendlens setup`"
	switch {
	case a.settings.saveErr != nil:
		hint = lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).
			Render("could not save config: " + a.settings.saveErr.Error())
	case a.settings.saved:
		hint = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render("saved")
	default:
		hint = hintStyle.Render(hint)
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("General", general, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Notifications", alerts, cw))
	b.WriteString("\n ")
	b.WriteString(hint)
	return b.String()
}
