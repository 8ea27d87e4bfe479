package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// StatusInfo is what the bottom status bar reports.
type StatusInfo struct {
	Unread     int
	DataAge    string
	Refreshing bool
	Message    string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	alertStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	left := base.Render(" ") + keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("r") + base.Render(" refresh  ") +
		keyStyle.Render("q") + base.Render(" quit")
	if info.Message != "" {
		left += base.Render("  │ " + info.Message)
	}

	var right string
	switch {
	case info.Refreshing:
		right = base.Render("refreshing… ")
	case info.DataAge != "":
		right = base.Render("updated " + info.DataAge + " ")
	}
	if info.Unread > 0 {
		right = alertStyle.Render(fmt.Sprintf("● %d unread  ", info.Unread)) + right
	}

	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", padding)) + right
}
