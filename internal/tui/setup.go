package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/tui/theme"
)

// SetupValues holds the first-run form fields as strings and bools so the
// huh widgets can bind to them directly.
type SetupValues struct {
	Region        string
	Currency      string
	BudgetAlerts  bool
	Threshold     string // percent, e.g. "80"
	InsightAlerts bool
	DailySummary  bool
	DailyTime     string
	WeeklySummary bool
	Reminder      bool
	ReminderDays  string
	Theme         string
}

// SetupValuesFrom prefills the form from cfg.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	n := cfg.Notifications
	return &SetupValues{
		Region:        string(config.Region(cfg)),
		Currency:      cfg.General.CurrencySymbol,
		BudgetAlerts:  n.BudgetAlertsEnabled,
		Threshold:     strconv.FormatFloat(n.BudgetAlertThreshold*100, 'f', -1, 64),
		InsightAlerts: n.InsightAlertsEnabled,
		DailySummary:  n.DailySummaryEnabled,
		DailyTime:     n.DailySummaryTime,
		WeeklySummary: n.WeeklySummaryEnabled,
		Reminder:      n.ReminderEnabled,
		ReminderDays:  strconv.Itoa(n.ReminderFrequencyDays),
		Theme:         cfg.Appearance.Theme,
	}
}

func validateThreshold(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > 100 {
		return fmt.Errorf("enter a percentage between 1 and 100")
	}
	return nil
}

func validateClock(s string) error {
	if _, _, err := model.ParseClock(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use HH:MM, e.g. 20:00")
	}
	return nil
}

func validateDays(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return fmt.Errorf("enter a whole number of days")
	}
	return nil
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	regionOpts := []huh.Option[string]{
		huh.NewOption("United Kingdom", string(model.RegionUK)),
		huh.NewOption("Europe", string(model.RegionEurope)),
		huh.NewOption("North America", string(model.RegionNorthAmerica)),
		huh.NewOption("South America", string(model.RegionSouthAmerica)),
		huh.NewOption("Asia", string(model.RegionAsia)),
		huh.NewOption("Oceania", string(model.RegionOceania)),
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendlens").
				Description("A few questions and you're set.\nRun `spendlens setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Region").
				Description("Picks the merchant table used to categorize expenses.").
				Options(regionOpts...).
				Value(&vals.Region),
			huh.NewInput().
				Title("Currency symbol").
				Placeholder("€").
				CharLimit(4).
				Value(&vals.Currency),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Budget alerts?").
				Value(&vals.BudgetAlerts),
			huh.NewInput().
				Title("Warn at percent of budget").
				Placeholder("80").
				Validate(validateThreshold).
				Value(&vals.Threshold),
			huh.NewConfirm().
				Title("Insight alerts (spending spikes, concentrated spending)?").
				Value(&vals.InsightAlerts),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Daily summary?").
				Value(&vals.DailySummary),
			huh.NewInput().
				Title("Daily summary time").
				Placeholder("20:00").
				Validate(validateClock).
				Value(&vals.DailyTime),
			huh.NewConfirm().
				Title("Weekly summary?").
				Value(&vals.WeeklySummary),
			huh.NewConfirm().
				Title("Remind me when I stop logging?").
				Value(&vals.Reminder),
			huh.NewInput().
				Title("Remind after days without expenses").
				Placeholder("3").
				Validate(validateDays).
				Value(&vals.ReminderDays),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// ApplySetup copies vals into cfg and validates the result.
func ApplySetup(cfg *config.Config, vals SetupValues) error {
	if err := validateThreshold(vals.Threshold); err != nil {
		return apperr.Validation("setup", err)
	}
	if err := validateClock(vals.DailyTime); err != nil {
		return apperr.Validation("setup", err)
	}
	if err := validateDays(vals.ReminderDays); err != nil {
		return apperr.Validation("setup", err)
	}

	threshold, _ := strconv.ParseFloat(strings.TrimSpace(vals.Threshold), 64)
	days, _ := strconv.Atoi(strings.TrimSpace(vals.ReminderDays))

	cfg.General.Region = string(model.ParseRegion(vals.Region))
	if c := strings.TrimSpace(vals.Currency); c != "" {
		cfg.General.CurrencySymbol = c
	}
	cfg.Notifications.BudgetAlertsEnabled = vals.BudgetAlerts
	cfg.Notifications.BudgetAlertThreshold = threshold / 100
	cfg.Notifications.InsightAlertsEnabled = vals.InsightAlerts
	cfg.Notifications.DailySummaryEnabled = vals.DailySummary
	cfg.Notifications.DailySummaryTime = strings.TrimSpace(vals.DailyTime)
	cfg.Notifications.WeeklySummaryEnabled = vals.WeeklySummary
	cfg.Notifications.ReminderEnabled = vals.Reminder
	cfg.Notifications.ReminderFrequencyDays = days
	cfg.Appearance.Theme = theme.ByName(vals.Theme).Name

	if err := cfg.Validate(); err != nil {
		return apperr.Validation("setup", err)
	}
	return nil
}
