// Package tui provides the interactive Bubble Tea dashboard for spendlens.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/tui/components"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabBudgets
	tabNotifications
	tabSettings
)

// DataLoadedMsg is sent when the dashboard finishes loading.
type DataLoadedMsg struct {
	Data     Dashboard
	LoadTime time.Duration
	Err      error
}

// markedMsg reports the outcome of marking notifications read.
type markedMsg struct {
	count int64
	err   error
}

// App is the root Bubble Tea model.
type App struct {
	src Source
	cfg config.Config
	now func() time.Time

	// Data
	data     Dashboard
	loaded   bool
	loadTime time.Duration
	loadErr  error

	lastRefresh time.Time
	refreshing  bool
	flash       string

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	notifCursor int
	settings    settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5 // minimum content area height
	loadTimeout      = 30 * time.Second
)

// NewApp creates a new TUI app model over src with the loaded config.
func NewApp(src Source, cfg config.Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		src:       src,
		cfg:       cfg,
		now:       time.Now,
		needSetup: !config.Exists(),
		spinner:   sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.src, a.now()),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabNotifications {
				a.moveNotifCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabNotifications {
				a.moveNotifCursor(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 && msg.Action == tea.MouseActionPress {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.refreshing = false
		a.loadTime = msg.LoadTime
		a.lastRefresh = a.now()
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.data = msg.Data
			a.notifCursor = min(a.notifCursor, max(len(a.data.Notifications)-1, 0))
		}

		// Activate first-run setup after data loads
		if a.needSetup && a.setupForm == nil {
			a.setupVals = SetupValuesFrom(a.cfg)
			a.setupForm = NewSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case markedMsg:
		if msg.err != nil {
			a.flash = apperr.UserMessage(msg.err)
			return a, nil
		}
		a.flash = fmt.Sprintf("marked %d read", msg.count)
		a.refreshing = true
		return a, loadDataCmd(a.src, a.now())

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	// Dismiss help
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""

	switch a.activeTab {
	case tabNotifications:
		switch key {
		case "j", "down":
			a.moveNotifCursor(1)
			return a, nil
		case "k", "up":
			a.moveNotifCursor(-1)
			return a, nil
		case "enter", "m":
			if a.notifCursor < len(a.data.Notifications) {
				n := a.data.Notifications[a.notifCursor]
				if !n.Read {
					return a, markReadCmd(a.src, n.ID)
				}
			}
			return a, nil
		case "A":
			return a, markAllReadCmd(a.src)
		}
	case tabSettings:
		if key == "t" {
			return a.cycleTheme(), nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadDataCmd(a.src, a.now())
		}
		return a, nil
	case "left", "h", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) moveNotifCursor(delta int) {
	a.notifCursor = min(max(a.notifCursor+delta, 0), max(len(a.data.Notifications)-1, 0))
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := a.cfg
		if err := ApplySetup(&cfg, *a.setupVals); err != nil {
			a.flash = apperr.UserMessage(err)
		} else if err := config.Save(cfg); err != nil {
			a.flash = "could not save config: " + err.Error()
		} else {
			a.cfg = cfg
			theme.SetActive(cfg.Appearance.Theme)
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

func (a App) currency() string {
	return a.cfg.General.CurrencySymbol
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	// First-run setup wizard
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendlens needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ spendlens") +
		subtitleStyle.Render(" · Spending Insights") + "\n\n" +
		a.spinner.View() + subtitleStyle.Render(" Reading the ledger...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	bindings := []struct{ key, desc string }{
		{"o b n x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move in notifications"},
		{"Enter m", "Mark notification read"},
		{"A", "Mark all notifications read"},
		{"t", "Cycle theme (settings)"},
		{"r", "Refresh data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w)

	age := ""
	if !a.lastRefresh.IsZero() {
		age = cli.FormatAgo(a.lastRefresh)
	}
	flash := a.flash
	if a.loadErr != nil {
		flash = apperr.UserMessage(a.loadErr)
	}
	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		Unread:     a.data.Unread(),
		DataAge:    age,
		Refreshing: a.refreshing,
		Message:    flash,
	})

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabBudgets:
		content = a.renderBudgetsTab(cw)
	case tabNotifications:
		content = a.renderNotificationsTab(cw, contentH)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func loadDataCmd(src Source, now time.Time) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		data, err := LoadDashboard(ctx, src, now)
		return DataLoadedMsg{Data: data, LoadTime: time.Since(start), Err: err}
	}
}

func markReadCmd(src Source, id string) tea.Cmd {
	return func() tea.Msg {
		err := src.MarkNotificationRead(context.Background(), id)
		if err != nil {
			return markedMsg{err: err}
		}
		return markedMsg{count: 1}
	}
}

func markAllReadCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		n, err := src.MarkAllNotificationsRead(context.Background())
		return markedMsg{count: n, err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
