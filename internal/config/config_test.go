package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

func TestLoad_MissingReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notifications != model.DefaultNotificationConfig() {
		t.Fatalf("Notifications = %+v, want defaults", cfg.Notifications)
	}
	if Exists() {
		t.Fatal("Exists() = true with no file")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.Region = "UK"
	cfg.Notifications.BudgetAlertThreshold = 0.9
	cfg.Notifications.DailySummaryEnabled = true
	cfg.Daemon.Interval = "15m"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Notifications.BudgetAlertThreshold != 0.9 || !got.Notifications.DailySummaryEnabled {
		t.Fatalf("Notifications = %+v", got.Notifications)
	}
	if Region(got) != model.RegionUK {
		t.Fatalf("Region = %s, want UK", Region(got))
	}
	if got.Daemon.PollInterval() != 15*time.Minute {
		t.Fatalf("PollInterval = %v, want 15m", got.Daemon.PollInterval())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, appName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[notifications]\nspending_spike_sensitivity = 2.0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notifications.SpendingSpikeSensitivity != 2.0 {
		t.Fatalf("sensitivity = %v, want 2.0", cfg.Notifications.SpendingSpikeSensitivity)
	}
	if cfg.Notifications.BudgetAlertThreshold != 0.8 || cfg.Daemon.Addr != "127.0.0.1:8797" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, appName, "config.toml")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("[general\n"), 0o600)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("err = %v, want parsing error", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Notifications.BudgetAlertThreshold = 1.5
	cfg.Notifications.SpendingSpikeSensitivity = 0.5
	cfg.Notifications.DailySummaryTime = "25:00"
	cfg.Notifications.WeeklySummaryDay = 0
	cfg.Daemon.Interval = "10s"
	cfg.AMQP.URL = "http://broker"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	for _, want := range []string{
		"budget_alert_threshold",
		"spending_spike_sensitivity",
		"daily_summary_time",
		"weekly_summary_day",
		"daemon.interval",
		"amqp.url",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv(EnvDB, "")
	cfg := DefaultConfig()

	if got := DBPath(cfg); got != filepath.Join("/tmp/data", appName, "ledger.db") {
		t.Fatalf("DBPath = %q", got)
	}
	cfg.General.DBPath = "/srv/ledger.db"
	if got := DBPath(cfg); got != "/srv/ledger.db" {
		t.Fatalf("DBPath = %q, want config value", got)
	}
	t.Setenv(EnvDB, "/env/ledger.db")
	if got := DBPath(cfg); got != "/env/ledger.db" {
		t.Fatalf("DBPath = %q, want env value", got)
	}

	cfg.AMQP.URL = "amqp://config"
	t.Setenv(EnvAMQPURL, "amqp://env")
	if got := AMQPURL(cfg); got != "amqp://env" {
		t.Fatalf("AMQPURL = %q, want env value", got)
	}

	t.Setenv(EnvRegion, "north-america")
	if got := Region(cfg); got != model.RegionNorthAmerica {
		t.Fatalf("Region = %s, want NORTH_AMERICA", got)
	}
}
