package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger:          %s\n", ledgerPath(cfg))
	fmt.Printf("    Region:          %s\n", currentRegion(cfg))
	fmt.Printf("    Currency:        %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Default months:  %d\n", cfg.General.DefaultMonths)
	fmt.Println()

	n := cfg.Notifications
	fmt.Println("  [Notifications]")
	fmt.Printf("    Budget alerts:   %s at %s\n", onOff(n.BudgetAlertsEnabled), cli.FormatPercent(n.BudgetAlertThreshold*100))
	fmt.Printf("    Insight alerts:  %s (spike x%.2f)\n", onOff(n.InsightAlertsEnabled), n.SpendingSpikeSensitivity)
	fmt.Printf("    Daily summary:   %s at %s\n", onOff(n.DailySummaryEnabled), n.DailySummaryTime)
	fmt.Printf("    Weekly summary:  %s on %s at %s\n", onOff(n.WeeklySummaryEnabled), cli.FormatWeekday(n.WeeklySummaryDay), n.WeeklySummaryTime)
	fmt.Printf("    Monthly summary: %s on the %s at %s\n", onOff(n.MonthlySummaryEnabled), cli.FormatOrdinal(n.MonthlySummaryDay), n.MonthlySummaryTime)
	fmt.Printf("    Reminder:        %s every %d days\n", onOff(n.ReminderEnabled), n.ReminderFrequencyDays)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:         %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:        %s\n", cfg.Daemon.PollInterval())
	fmt.Printf("    Events buffer:   %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [AMQP]")
	if u := config.AMQPURL(cfg); u != "" {
		fmt.Printf("    URL:             %s\n", redactURL(u))
		fmt.Printf("    Exchange/queue:  %s / %s\n", cfg.AMQP.Exchange, cfg.AMQP.Queue)
	} else {
		fmt.Println("    Publishing:      off")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Println("  " + cli.Warn("Problems:"))
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Printf("    - %s\n", line)
		}
		fmt.Println()
	}

	fmt.Println("  Run `spendlens setup` to reconfigure.")
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// redactURL hides the broker password.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}
