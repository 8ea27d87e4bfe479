package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/spendlens/internal/cli"
	"github.com/theirongolddev/spendlens/internal/config"
	"github.com/theirongolddev/spendlens/internal/daemon"
	"github.com/theirongolddev/spendlens/internal/logging"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background alert evaluator with an HTTP/SSE API",
	Long: "Evaluates budget and spending alerts and scheduled summaries on an interval,\n" +
		"stores the notifications and serves status, insight and budgets over HTTP.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultPID := filepath.Join(config.DataDir(), "spendlensd.pid")
	defaultLog := filepath.Join(config.DataDir(), "spendlensd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Evaluation interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPID, "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings merges the daemon flags over the config file.
type daemonSettings struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
}

func resolveDaemonSettings(cfg config.Config) daemonSettings {
	st := daemonSettings{
		Addr:         cfg.Daemon.Addr,
		Interval:     cfg.Daemon.PollInterval(),
		EventsBuffer: cfg.Daemon.EventsBuffer,
	}
	if flagDaemonAddr != "" {
		st.Addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		st.Interval = flagDaemonInterval
	}
	if flagDaemonEventsBuffer > 0 {
		st.EventsBuffer = flagDaemonEventsBuffer
	}
	return st
}

// summaryStatePath sits next to the PID file so separate daemons keep
// separate schedules.
func summaryStatePath(pidFile string) string {
	return filepath.Join(filepath.Dir(pidFile), "summaries.json")
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if flagDaemonDetach && flagDaemonChild {
		return errors.New("invalid daemon launch mode")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	settings := resolveDaemonSettings(cfg)

	if flagDaemonDetach {
		return startDaemonDetached(settings)
	}
	return runDaemonForeground(cfg, settings)
}

func startDaemonDetached(settings daemonSettings) error {
	if err := ensureDaemonNotRunning(flagDaemonPIDFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", flagDaemonPIDFile)
	fmt.Printf("  API: http://%s/v1/status\n", settings.Addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground(cfg config.Config, settings daemonSettings) error {
	if err := ensureDaemonNotRunning(flagDaemonPIDFile); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonPIDFile), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}

	// Detached children write to the log file, where JSON lines are easier
	// to ship.
	base := logging.New(logging.Config{
		Level: logging.ParseLevel(cfg.Daemon.LogLevel),
		JSON:  flagDaemonChild,
	})
	logger := base.WithComponent(logging.ComponentDaemon).Logger

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	sink, closeSink, err := notificationSink(cfg, ledger, base)
	if err != nil {
		return err
	}
	defer closeSink()

	pid := os.Getpid()
	if err := writePID(flagDaemonPIDFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonPIDFile) }()

	state := daemonRuntimeState{
		PID:       pid,
		Addr:      settings.Addr,
		StartedAt: time.Now(),
		Ledger:    ledgerPath(cfg),
	}
	_ = writeState(statePath(flagDaemonPIDFile), state)
	defer func() { _ = os.Remove(statePath(flagDaemonPIDFile)) }()

	svc := daemon.New(daemon.Config{
		Interval:      settings.Interval,
		Addr:          settings.Addr,
		EventsBuffer:  settings.EventsBuffer,
		Notifications: cfg.Notifications,
		StatePath:     summaryStatePath(flagDaemonPIDFile),
		Logger:        logger,
	}, ledger, sink)

	fmt.Printf("  spendlens daemon listening on http://%s\n", settings.Addr)
	fmt.Printf("  Evaluating every %s against %s\n", settings.Interval, state.Ledger)
	fmt.Printf("  Stop with: spendlens daemon stop --pid-file %s\n", flagDaemonPIDFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("daemon stopped")
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagDaemonPIDFile)
	if err != nil {
		fmt.Printf("  Daemon: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Daemon: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	addr := flagDaemonAddr
	st, stErr := readState(statePath(flagDaemonPIDFile))
	if stErr == nil && st.Addr != "" && addr == "" {
		addr = st.Addr
	}
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr = cfg.Daemon.Addr
	}

	fmt.Printf("  Daemon PID: %d\n", pid)
	fmt.Printf("  Address: http://%s\n", addr)
	if stErr == nil {
		fmt.Printf("  Ledger: %s\n", st.Ledger)
		fmt.Printf("  Started: %s\n", cli.FormatAgo(st.StartedAt))
	}

	status, err := fetchDaemonStatus(addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sum := status.Summary

	if status.LastPollAt.IsZero() {
		fmt.Printf("  Last check: pending\n")
	} else {
		fmt.Printf("  Last check: %s (%s)\n", status.LastPollAt.Local().Format(time.RFC3339), cli.FormatAgo(status.LastPollAt))
	}
	fmt.Printf("  Checks: %d every %ds\n", status.PollCount, status.PollIntervalSec)
	fmt.Printf("  %s: %s across %d expenses\n", sum.Month, money(cfg, sum.MonthTotal), sum.MonthCount)
	fmt.Printf("  Active budgets: %d\n", sum.ActiveBudgets)
	fmt.Printf("  Unread notifications: %d\n", sum.UnreadCount)
	fmt.Printf("  Last alerts: %d budget, %d insight, %d summaries\n", sum.BudgetAlerts, sum.InsightAlerts, sum.Summaries)
	if sum.Urgent {
		fmt.Printf("  %s\n", cli.Warn("A budget is exceeded"))
	}
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", status.LastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pid, err := readPID(flagDaemonPIDFile)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			removeDaemonFiles(flagDaemonPIDFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
