package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/tui/components"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// notificationRows is the number of lines one notification occupies.
const notificationRows = 2

func (a App) renderNotificationsTab(cw, h int) string {
	t := theme.Active
	ns := a.data.Notifications
	innerW := components.CardInnerWidth(cw)

	if len(ns) == 0 {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No notifications yet. Run `spendlens alerts` or start the daemon.")
		return components.ContentCard("Notifications", hint, cw)
	}

	// Keep the cursor visible inside the card (borders + title take 3 lines).
	visible := max((h-3)/notificationRows, 1)
	offset := 0
	if a.notifCursor >= visible {
		offset = a.notifCursor - visible + 1
	}
	end := min(offset+visible, len(ns))

	base := lipgloss.NewStyle().Background(t.Surface)
	selected := lipgloss.NewStyle().Background(t.SurfaceHover)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	for i := offset; i < end; i++ {
		n := ns[i]
		row := base
		if i == a.notifCursor {
			row = selected
		}

		marker := "  "
		titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		if !n.Read {
			marker = "● "
			titleStyle = lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
		}
		prio := lipgloss.NewStyle().Foreground(t.PriorityColor(n.Priority)).Bold(true)

		when := cli.FormatAgo(n.TriggerDate)
		head := prio.Render(marker) +
			prio.Render(fmt.Sprintf("%-6s ", n.Priority)) +
			titleStyle.Render(n.Title)
		gap := max(innerW-lipgloss.Width(head)-lipgloss.Width(when), 1)
		head += strings.Repeat(" ", gap) + dimStyle.Render(when)

		b.WriteString(row.Width(innerW).Render(head))
		b.WriteString("\n")
		b.WriteString(row.Width(innerW).Render(msgStyle.Render("  " + cli.Truncate(n.Message, innerW-2))))
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Notifications (%d unread)", a.data.Unread())
	return components.ContentCard(title, strings.TrimRight(b.String(), "\n"), cw)
}
