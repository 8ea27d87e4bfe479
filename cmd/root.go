// Package cmd implements the spendlens CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/logging"
	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/store"
)

const dayLayout = "2006-01-02"

var (
	flagDB      string
	flagQuiet   bool
	flagRegion  string
	flagVerbose bool
)

// baseLogger carries no component; commands tag it with WithComponent.
var baseLogger = logging.New(logging.Config{Level: slog.LevelWarn})

var rootCmd = &cobra.Command{
	Use:           "spendlens",
	Short:         "Personal spending insights, budgets and alerts",
	Long:          "Track expenses in a local ledger and get monthly insights, budget progress, predictions and alerts.",
	RunE:          runOverview,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %s\n", errorText(err))
		slog.Debug("command failed", logging.FieldError, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Ledger database path (default: data dir or $"+config.EnvDB+")")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "Merchant region for classification (UK, EUROPE, NORTH_AMERICA, ...)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
}

func initLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	baseLogger = logging.New(logging.Config{Level: level})
	logging.SetDefault(baseLogger.WithComponent(logging.ComponentCLI))
}

// errorText prefers the classified user message and falls back to the raw
// error for failures that never went through apperr.
func errorText(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return apperr.UserMessage(err)
	}
	return err.Error()
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, apperr.WrapKind("load config", apperr.KindFile, err)
	}
	if flagRegion != "" {
		cfg.General.Region = string(model.ParseRegion(flagRegion))
	}
	return cfg, nil
}

// ledgerPath resolves the ledger: --db beats the env var and config.
func ledgerPath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.DBPath(cfg)
}

func openLedger(cfg config.Config) (*store.Ledger, error) {
	path := ledgerPath(cfg)
	baseLogger.WithComponent(logging.ComponentStore).Debug("opening ledger", "path", path)
	return store.Open(path)
}

// currentRegion honours --region over the env var and config.
func currentRegion(cfg config.Config) model.Region {
	if flagRegion != "" {
		return model.ParseRegion(flagRegion)
	}
	return config.Region(cfg)
}

func money(cfg config.Config, amount float64) string {
	return cli.FormatMoney(cfg.General.CurrencySymbol, amount)
}

func infof(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf(format, args...)
}

func parseDay(op, s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation(op, fmt.Errorf("date %q must be YYYY-MM-DD", s))
	}
	return t, nil
}

func parseMonth(op, s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation(op, fmt.Errorf("month %q must be YYYY-MM", s))
	}
	return t, nil
}

// parseCategoryArg matches an enum name or label; unlike model.ParseCategory
// it rejects unknown input instead of mapping it to Other.
func parseCategoryArg(op, s string) (model.Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range model.Categories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Label()) {
			return c, nil
		}
	}
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return "", apperr.Validation(op, fmt.Errorf("unknown category %q (one of %s)", s, strings.Join(names, ", ")))
}

func runOverview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	count, err := ledger.ExpenseCount(cmd.Context())
	if err != nil {
		return err
	}
	if count == 0 {
		fmt.Println("\n  No expenses recorded yet.")
		fmt.Println("  Add one with `spendlens add 12.50 \"lunch\"` or `spendlens import file.csv`.")
		return nil
	}

	now := time.Now()
	if err := printInsight(cmd, cfg, ledger, now); err != nil {
		return err
	}
	if err := printPrediction(cmd, cfg, ledger, now); err != nil {
		return err
	}

	unread, err := ledger.UnreadNotificationCount(cmd.Context())
	if err != nil {
		return err
	}
	if unread > 0 {
		fmt.Printf("\n  %s\n", cli.Warn(fmt.Sprintf("%d unread notifications (spendlens notifications)", unread)))
	}
	return nil
}
