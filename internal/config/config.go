// Package config loads and saves the spendlens TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/spendlens/internal/model"
)

const appName = "spendlens"

// Environment overrides, applied after .env is loaded.
const (
	EnvDB      = "SPENDLENS_DB"
	EnvAMQPURL = "SPENDLENS_AMQP_URL"
	EnvRegion  = "SPENDLENS_REGION"
)

// Config holds all spendlens configuration.
type Config struct {
	General       GeneralConfig            `toml:"general"`
	Notifications model.NotificationConfig `toml:"notifications"`
	Daemon        DaemonConfig             `toml:"daemon"`
	AMQP          AMQPConfig               `toml:"amqp"`
	Appearance    AppearanceConfig         `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DBPath         string `toml:"db_path,omitempty"`
	Region         string `toml:"region"`
	CurrencySymbol string `toml:"currency_symbol"`
	DefaultMonths  int    `toml:"default_months"`
}

// DaemonConfig holds the background evaluator settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	Interval     string `toml:"interval"`
	EventsBuffer int    `toml:"events_buffer"`
	LogLevel     string `toml:"log_level"`
}

// AMQPConfig enables publishing notifications to RabbitMQ when URL is set.
type AMQPConfig struct {
	URL      string `toml:"url,omitempty"`
	Exchange string `toml:"exchange"`
	Queue    string `toml:"queue"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Region:         string(model.RegionEurope),
			CurrencySymbol: "€",
			DefaultMonths:  6,
		},
		Notifications: model.DefaultNotificationConfig(),
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8797",
			Interval:     "1h",
			EventsBuffer: 200,
			LogLevel:     "info",
		},
		AMQP: AMQPConfig{
			Exchange: appName,
			Queue:    appName + ".notifications",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the ledger.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	n := c.Notifications

	if n.BudgetAlertThreshold <= 0 || n.BudgetAlertThreshold > 1 {
		errs = append(errs, fmt.Errorf("notifications.budget_alert_threshold must be in (0, 1], got %v", n.BudgetAlertThreshold))
	}
	if n.SpendingSpikeSensitivity < 1 {
		errs = append(errs, fmt.Errorf("notifications.spending_spike_sensitivity must be at least 1, got %v", n.SpendingSpikeSensitivity))
	}
	for key, hhmm := range map[string]string{
		"daily_summary_time":   n.DailySummaryTime,
		"weekly_summary_time":  n.WeeklySummaryTime,
		"monthly_summary_time": n.MonthlySummaryTime,
	} {
		if _, _, err := model.ParseClock(hhmm); err != nil {
			errs = append(errs, fmt.Errorf("notifications.%s: %w", key, err))
		}
	}
	if n.WeeklySummaryDay < 1 || n.WeeklySummaryDay > 7 {
		errs = append(errs, fmt.Errorf("notifications.weekly_summary_day must be 1-7, got %d", n.WeeklySummaryDay))
	}
	if n.MonthlySummaryDay < 1 || n.MonthlySummaryDay > 31 {
		errs = append(errs, fmt.Errorf("notifications.monthly_summary_day must be 1-31, got %d", n.MonthlySummaryDay))
	}
	if n.ReminderFrequencyDays < 1 {
		errs = append(errs, fmt.Errorf("notifications.reminder_frequency_days must be at least 1, got %d", n.ReminderFrequencyDays))
	}

	if c.General.DefaultMonths < 1 {
		errs = append(errs, fmt.Errorf("general.default_months must be at least 1, got %d", c.General.DefaultMonths))
	}
	if d, err := time.ParseDuration(c.Daemon.Interval); err != nil || d < time.Minute {
		errs = append(errs, fmt.Errorf("daemon.interval must be a duration of at least 1m, got %q", c.Daemon.Interval))
	}
	if c.Daemon.EventsBuffer < 1 {
		errs = append(errs, fmt.Errorf("daemon.events_buffer must be positive, got %d", c.Daemon.EventsBuffer))
	}
	if u := AMQPURL(c); u != "" {
		if parsed, err := url.Parse(u); err != nil || (parsed.Scheme != "amqp" && parsed.Scheme != "amqps") {
			errs = append(errs, errors.New("amqp.url must be an amqp:// or amqps:// URL"))
		}
	}

	return errors.Join(errs...)
}

// DBPath returns the ledger path from env var, config, or the data dir, in
// that order.
func DBPath(cfg Config) string {
	if p := os.Getenv(EnvDB); p != "" {
		return p
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return filepath.Join(DataDir(), "ledger.db")
}

// AMQPURL returns the broker URL from env var or config, in that order.
func AMQPURL(cfg Config) string {
	if u := os.Getenv(EnvAMQPURL); u != "" {
		return u
	}
	return cfg.AMQP.URL
}

// Region returns the merchant region from env var or config.
func Region(cfg Config) model.Region {
	if r := os.Getenv(EnvRegion); r != "" {
		return model.ParseRegion(r)
	}
	return model.ParseRegion(cfg.General.Region)
}

// PollInterval returns the daemon poll interval, defaulting to an hour.
func (d DaemonConfig) PollInterval() time.Duration {
	iv, err := time.ParseDuration(strings.TrimSpace(d.Interval))
	if err != nil || iv <= 0 {
		return time.Hour
	}
	return iv
}
