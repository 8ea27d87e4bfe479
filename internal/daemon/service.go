// Package daemon provides the long-running background alert evaluator and
// its local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

// Ledger is the storage the daemon evaluates and reports on.
type Ledger interface {
	pipeline.LedgerSource
	pipeline.BudgetSource
	UnreadNotificationCount(ctx context.Context) (int, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Interval      time.Duration
	Addr          string
	EventsBuffer  int
	Notifications model.NotificationConfig
	// StatePath stores when scheduled summaries were last sent. Empty keeps
	// the schedule in memory only.
	StatePath string
	Logger    *slog.Logger
	Now       func() time.Time
}

// Snapshot is a compact spending state for status/event payloads.
type Snapshot struct {
	At            time.Time `json:"at"`
	Month         string    `json:"month"`
	MonthTotal    float64   `json:"month_total"`
	MonthCount    int       `json:"month_count"`
	ActiveBudgets int       `json:"active_budgets"`
	UnreadCount   int       `json:"unread_count"`
	BudgetAlerts  int       `json:"budget_alerts"`
	InsightAlerts int       `json:"insight_alerts"`
	Summaries     int       `json:"summaries"`
	Urgent        bool      `json:"urgent"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	MonthTotal float64 `json:"month_total"`
	MonthCount int     `json:"month_count"`
	Unread     int     `json:"unread"`
}

func (d Delta) isZero() bool {
	return d.MonthTotal == 0 &&
		d.MonthCount == 0 &&
		d.Unread == 0
}

// Event types.
const (
	EventSnapshot      = "snapshot"
	EventSpendingDelta = "spending_delta"
	EventAlerts        = "alerts"
)

// Event is emitted whenever the snapshot changes or a poll raised alerts.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Titles    []string  `json:"titles,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg       Config
	ledger    Ledger
	sink      pipeline.NotificationSink
	evaluator *pipeline.AlertEvaluator
	logger    *slog.Logger

	// pollMu serializes evaluation runs from the ticker and POST /v1/check.
	pollMu    sync.Mutex
	summaries pipeline.SummaryState

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config. Notifications
// produced by evaluation go to sink.
func New(cfg Config, ledger Ledger, sink pipeline.NotificationSink) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = time.Hour
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8797"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Service{
		cfg:       cfg,
		ledger:    ledger,
		sink:      sink,
		logger:    cfg.Logger,
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
		evaluator: &pipeline.AlertEvaluator{
			Budgets:  ledger,
			Expenses: ledger,
			Sink:     sink,
			Logger:   cfg.Logger,
			Now:      cfg.Now,
		},
	}
	if st, err := loadSummaryState(cfg.StatePath); err == nil {
		s.summaries = st
	} else if !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("summary state unreadable, starting fresh", "path", cfg.StatePath, "error", err)
	}
	return s
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.PollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.PollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// PollOnce evaluates alerts and due summaries, refreshes the snapshot and
// publishes the resulting events.
func (s *Service) PollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	start := s.cfg.Now()
	result, err := s.evaluator.CheckAll(ctx, s.cfg.Notifications)
	if err != nil {
		s.recordError(err)
		return
	}

	sent, err := s.sendSummaries(ctx, start)
	if err != nil {
		s.recordError(err)
		return
	}

	snap, err := s.buildSnapshot(ctx, start)
	if err != nil {
		s.recordError(err)
		return
	}
	snap.BudgetAlerts = len(result.BudgetAlerts)
	snap.InsightAlerts = len(result.InsightAlerts)
	snap.Summaries = len(sent)
	snap.Urgent = result.HasUrgentAlerts

	var titles []string
	for _, a := range result.BudgetAlerts {
		titles = append(titles, a.Message)
	}
	for _, n := range result.InsightAlerts {
		titles = append(titles, n.Title)
	}
	for _, n := range sent {
		titles = append(titles, n.Title)
	}

	s.logger.Info("poll complete",
		"budget_alerts", snap.BudgetAlerts,
		"insight_alerts", snap.InsightAlerts,
		"summaries", snap.Summaries,
		"duration", s.cfg.Now().Sub(start),
	)

	var pending []Event

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = snap.At
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		pending = append(pending, s.newEventLocked(EventSnapshot, snap, Delta{}, nil))
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		pending = append(pending, s.newEventLocked(EventSpendingDelta, snap, delta, nil))
	}
	if len(titles) > 0 {
		pending = append(pending, s.newEventLocked(EventAlerts, snap, Delta{}, titles))
	}
	s.mu.Unlock()

	for _, ev := range pending {
		s.publishEvent(ev)
	}
}

func (s *Service) newEventLocked(typ string, snap Snapshot, delta Delta, titles []string) Event {
	s.nextEventID++
	return Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: snap.At,
		Snapshot:  snap,
		Delta:     delta,
		Titles:    titles,
	}
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastPollAt = s.cfg.Now()
	s.pollCount++
	s.mu.Unlock()
	s.logger.Error("daemon poll failed", "error", err)
}

// sendSummaries hands due summaries to the sink and advances the schedule.
func (s *Service) sendSummaries(ctx context.Context, now time.Time) ([]model.Notification, error) {
	due, err := pipeline.Summaries(ctx, s.ledger, s.cfg.Notifications, now, s.summaries)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}

	// Only saved summaries advance the schedule; failed ones retry next poll.
	sent := make([]model.Notification, 0, len(due))
	for _, n := range due {
		if s.sink != nil {
			if err := s.sink.SaveNotification(ctx, n); err != nil {
				s.logger.Warn("saving summary failed", "type", n.Type, "error", err)
				continue
			}
		}
		s.summaries.Mark(n)
		sent = append(sent, n)
	}
	if len(sent) == 0 {
		return nil, nil
	}
	if err := saveSummaryState(s.cfg.StatePath, s.summaries); err != nil {
		s.logger.Warn("writing summary state failed", "path", s.cfg.StatePath, "error", err)
	}
	return sent, nil
}

func (s *Service) buildSnapshot(ctx context.Context, now time.Time) (Snapshot, error) {
	start, end := pipeline.MonthWindow(now)
	expenses, err := s.ledger.ExpensesInRange(ctx, start, end)
	if err != nil {
		return Snapshot{}, err
	}
	budgets, err := s.ledger.ActiveBudgets(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	unread, err := s.ledger.UnreadNotificationCount(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		At:            now,
		Month:         now.Format("2006-01"),
		MonthTotal:    model.SumAmounts(expenses),
		MonthCount:    len(expenses),
		ActiveBudgets: len(budgets),
		UnreadCount:   unread,
	}, nil
}

func diffSnapshots(prev, curr Snapshot) Delta {
	if prev.Month != curr.Month {
		// A new month starts from zero; report the new totals as the delta.
		return Delta{
			MonthTotal: curr.MonthTotal,
			MonthCount: curr.MonthCount,
			Unread:     curr.UnreadCount - prev.UnreadCount,
		}
	}
	return Delta{
		MonthTotal: curr.MonthTotal - prev.MonthTotal,
		MonthCount: curr.MonthCount - prev.MonthCount,
		Unread:     curr.UnreadCount - prev.UnreadCount,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func loadSummaryState(path string) (pipeline.SummaryState, error) {
	var st pipeline.SummaryState
	if path == "" {
		return st, os.ErrNotExist
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from daemon flags
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func saveSummaryState(path string, st pipeline.SummaryState) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
