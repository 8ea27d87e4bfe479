package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
	"github.com/theirongolddev/spendlens/internal/pipeline"
)

// fakeLedger is an in-memory ledger that also acts as the notification sink.
type fakeLedger struct {
	mu       sync.Mutex
	expenses []model.Expense
	budgets  []model.Budget
	saved    []model.Notification
	err      error
}

func (f *fakeLedger) ExpensesInRange(_ context.Context, start, end time.Time) ([]model.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Expense
	for _, e := range f.expenses {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) ExpensesByCategoryInRange(ctx context.Context, c model.Category, start, end time.Time) ([]model.Expense, error) {
	all, err := f.ExpensesInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var out []model.Expense
	for _, e := range all {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) ActiveBudgets(context.Context) ([]model.Budget, error) {
	return f.budgets, f.err
}

func (f *fakeLedger) BudgetByID(_ context.Context, id int64) (model.Budget, error) {
	for _, b := range f.budgets {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Budget{}, errors.New("not found")
}

func (f *fakeLedger) UnreadNotificationCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved), f.err
}

func (f *fakeLedger) SaveNotification(_ context.Context, n model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakeLedger) savedTypes() map[model.NotificationType]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[model.NotificationType]int)
	for _, n := range f.saved {
		out[n.Type]++
	}
	return out
}

var pollNow = time.Date(2024, time.March, 20, 21, 0, 0, 0, time.Local)

func newTestService(t *testing.T, ledger *fakeLedger, mutate func(*Config)) *Service {
	t.Helper()
	cfg := Config{
		Interval:      time.Minute,
		EventsBuffer:  10,
		Notifications: model.DefaultNotificationConfig(),
		Now:           func() time.Time { return pollNow },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, ledger, ledger)
}

func overBudgetLedger() *fakeLedger {
	food := model.NewExpense(150, model.CategoryFood, "groceries", time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local))
	b, _ := model.NewBudget(model.CategoryFood, 100, model.PeriodMonthly, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local))
	b.ID = 7
	return &fakeLedger{expenses: []model.Expense{food}, budgets: []model.Budget{b}}
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Month: "2024-03", MonthTotal: 10.5, MonthCount: 3, UnreadCount: 1}
	curr := Snapshot{Month: "2024-03", MonthTotal: 13.1, MonthCount: 4, UnreadCount: 3}

	delta := diffSnapshots(prev, curr)
	if math.Abs(delta.MonthTotal-2.6) > 1e-9 {
		t.Fatalf("MonthTotal delta = %.2f, want 2.60", delta.MonthTotal)
	}
	if delta.MonthCount != 1 {
		t.Fatalf("MonthCount delta = %d, want 1", delta.MonthCount)
	}
	if delta.Unread != 2 {
		t.Fatalf("Unread delta = %d, want 2", delta.Unread)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
}

func TestDiffSnapshotsMonthRollover(t *testing.T) {
	prev := Snapshot{Month: "2024-03", MonthTotal: 900, MonthCount: 30}
	curr := Snapshot{Month: "2024-04", MonthTotal: 12, MonthCount: 1}

	delta := diffSnapshots(prev, curr)
	if delta.MonthTotal != 12 || delta.MonthCount != 1 {
		t.Fatalf("rollover delta = %+v, want the new month totals", delta)
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	}, &fakeLedger{}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnceRaisesAlerts(t *testing.T) {
	ledger := overBudgetLedger()
	s := newTestService(t, ledger, nil)

	s.PollOnce(context.Background())

	st := s.snapshotStatus()
	if st.LastError != "" {
		t.Fatalf("LastError = %q", st.LastError)
	}
	if st.PollCount != 1 {
		t.Fatalf("PollCount = %d, want 1", st.PollCount)
	}
	snap := st.Summary
	if snap.MonthTotal != 150 || snap.MonthCount != 1 || snap.ActiveBudgets != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.BudgetAlerts != 1 || !snap.Urgent {
		t.Fatalf("budget alerts = %d urgent = %v, want 1 urgent", snap.BudgetAlerts, snap.Urgent)
	}
	if snap.InsightAlerts != 2 {
		t.Fatalf("insight alerts = %d, want 2 (concentration and high-spend day)", snap.InsightAlerts)
	}

	types := ledger.savedTypes()
	if types[model.NotifyBudgetExceeded] != 1 {
		t.Fatalf("saved types = %v, want one BUDGET_EXCEEDED", types)
	}
	if types[model.NotifyCategoryWarning] != 1 || types[model.NotifyInsightAlert] != 1 {
		t.Fatalf("saved types = %v, want insight alerts", types)
	}
	if snap.UnreadCount != 3 {
		t.Fatalf("unread = %d, want 3", snap.UnreadCount)
	}

	s.mu.RLock()
	events := append([]Event(nil), s.events...)
	s.mu.RUnlock()
	if len(events) != 2 || events[0].Type != EventSnapshot || events[1].Type != EventAlerts {
		t.Fatalf("events = %+v, want snapshot then alerts", events)
	}
	if len(events[1].Titles) != 3 {
		t.Fatalf("alert titles = %v, want 3", events[1].Titles)
	}
}

func TestPollOnceRecordsError(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("disk gone")}
	s := newTestService(t, ledger, nil)

	s.PollOnce(context.Background())

	st := s.snapshotStatus()
	if st.LastError == "" {
		t.Fatal("expected LastError to be set")
	}
	if st.PollCount != 1 {
		t.Fatalf("PollCount = %d, want 1", st.PollCount)
	}
	if st.EventCount != 0 {
		t.Fatalf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestSummariesSentOncePerSlot(t *testing.T) {
	ledger := &fakeLedger{}
	statePath := filepath.Join(t.TempDir(), "state", "summaries.json")
	s := newTestService(t, ledger, func(c *Config) {
		c.Notifications.DailySummaryEnabled = true
		c.Notifications.DailySummaryTime = "20:00"
		c.StatePath = statePath
	})

	s.PollOnce(context.Background())
	s.PollOnce(context.Background())

	if got := ledger.savedTypes()[model.NotifyDailySummary]; got != 1 {
		t.Fatalf("daily summaries = %d, want 1", got)
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		t.Fatalf("reading state: %v", err)
	}
	var st pipeline.SummaryState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	if !st.Daily.Equal(pollNow) {
		t.Fatalf("Daily = %v, want %v", st.Daily, pollNow)
	}

	// A restarted daemon picks the schedule back up.
	restarted := newTestService(t, ledger, func(c *Config) {
		c.Notifications.DailySummaryEnabled = true
		c.Notifications.DailySummaryTime = "20:00"
		c.StatePath = statePath
	})
	restarted.PollOnce(context.Background())
	if got := ledger.savedTypes()[model.NotifyDailySummary]; got != 1 {
		t.Fatalf("daily summaries after restart = %d, want 1", got)
	}
}

// rejectingSink fails every notification of one type.
type rejectingSink struct {
	reject model.NotificationType
	inner  *fakeLedger
}

func (r rejectingSink) SaveNotification(ctx context.Context, n model.Notification) error {
	if n.Type == r.reject {
		return errors.New("sink unavailable")
	}
	return r.inner.SaveNotification(ctx, n)
}

func TestFailedSummaryNotCounted(t *testing.T) {
	ledger := &fakeLedger{}
	cfg := Config{
		Interval:      time.Minute,
		EventsBuffer:  10,
		Notifications: model.DefaultNotificationConfig(),
		Now:           func() time.Time { return pollNow },
	}
	cfg.Notifications.DailySummaryEnabled = true
	cfg.Notifications.DailySummaryTime = "20:00"
	s := New(cfg, ledger, rejectingSink{reject: model.NotifyDailySummary, inner: ledger})

	s.PollOnce(context.Background())

	st := s.snapshotStatus()
	if st.Summary.Summaries != 0 {
		t.Fatalf("Summaries = %d, want 0", st.Summary.Summaries)
	}
	if !s.summaries.Daily.IsZero() {
		t.Fatalf("Daily = %v, want zero so the summary retries", s.summaries.Daily)
	}
	for _, ev := range s.events {
		for _, title := range ev.Titles {
			if strings.Contains(strings.ToLower(title), "daily") {
				t.Fatalf("failed summary %q reported as sent", title)
			}
		}
	}
}

func TestRouterEndpoints(t *testing.T) {
	ledger := overBudgetLedger()
	s := newTestService(t, ledger, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	get := func(path string) (*http.Response, []byte) {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		return resp, body
	}

	resp, body := get("/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}

	resp, body = get("/v1/budgets")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("budgets status = %d", resp.StatusCode)
	}
	var budgets []BudgetView
	if err := json.Unmarshal(body, &budgets); err != nil {
		t.Fatalf("decoding budgets: %v", err)
	}
	if len(budgets) != 1 || budgets[0].ID != 7 || budgets[0].Status != model.StatusExceeded || budgets[0].Percentage != 150 {
		t.Fatalf("budgets = %+v", budgets)
	}

	resp, body = get("/v1/insight?month=2024-03")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("insight status = %d", resp.StatusCode)
	}
	var insight InsightView
	if err := json.Unmarshal(body, &insight); err != nil {
		t.Fatalf("decoding insight: %v", err)
	}
	if insight.Month != "2024-03" || insight.TotalSpent != 150 || insight.TopCategory != model.CategoryFood {
		t.Fatalf("insight = %+v", insight)
	}
	if insight.Comparison != nil {
		t.Fatalf("comparison = %+v, want nil with no previous spending", insight.Comparison)
	}

	resp, _ = get("/v1/insight?month=March")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad month status = %d, want 400", resp.StatusCode)
	}

	resp, body = get("/v1/prediction")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("prediction status = %d", resp.StatusCode)
	}
	var pred PredictionView
	if err := json.Unmarshal(body, &pred); err != nil {
		t.Fatalf("decoding prediction: %v", err)
	}
	if pred.CurrentMonthTotal != 150 {
		t.Fatalf("prediction = %+v", pred)
	}

	post, err := http.Post(srv.URL+"/v1/check", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /v1/check: %v", err)
	}
	defer func() { _ = post.Body.Close() }()
	var st Status
	if err := json.NewDecoder(post.Body).Decode(&st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.PollCount != 1 || st.Summary.BudgetAlerts != 1 {
		t.Fatalf("status after check = %+v", st)
	}

	resp, _ = get("/v1/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown route status = %d, want 404", resp.StatusCode)
	}
}
