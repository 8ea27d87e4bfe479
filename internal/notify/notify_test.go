package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/spendlens/internal/model"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingSink struct {
	mu    sync.Mutex
	saved []model.Notification
	err   error
}

func (r *recordingSink) SaveNotification(_ context.Context, n model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, n)
	return nil
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func sample() model.Notification {
	return model.NewNotification(model.NotifyBudgetExceeded, model.PriorityUrgent, "Budget exceeded",
		"You went 12% over your Food & Dining budget.",
		time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC),
		map[string]string{"budgetId": "2", "category": "FOOD"})
}

func TestMulti_PrimaryErrorReturned(t *testing.T) {
	other := &recordingSink{}
	m := &Multi{Primary: &recordingSink{err: errors.New("disk full")}, Others: []Sink{other}, Logger: quiet}
	if err := m.SaveNotification(context.Background(), sample()); err == nil {
		t.Fatal("expected primary error")
	}
	if other.count() != 0 {
		t.Fatal("secondary sink called after primary failure")
	}
}

func TestMulti_SecondaryErrorLogged(t *testing.T) {
	primary := &recordingSink{}
	failing := SinkFunc(func(context.Context, model.Notification) error { return errors.New("broker down") })
	last := &recordingSink{}
	m := &Multi{Primary: primary, Others: []Sink{failing, last}, Logger: quiet}

	if err := m.SaveNotification(context.Background(), sample()); err != nil {
		t.Fatalf("SaveNotification: %v", err)
	}
	if primary.count() != 1 || last.count() != 1 {
		t.Fatalf("primary=%d last=%d, want 1 and 1", primary.count(), last.count())
	}
}

func TestWorker_DeliversAndDrains(t *testing.T) {
	sink := &recordingSink{}
	w := NewWorker(sink, 16, quiet)
	w.Start()
	for range 5 {
		if !w.Enqueue(sample()) {
			t.Fatal("Enqueue dropped with free capacity")
		}
	}
	w.Shutdown()
	if got := sink.count(); got != 5 {
		t.Fatalf("delivered %d, want 5", got)
	}
}

func TestWorker_DropsWhenFull(t *testing.T) {
	w := NewWorker(&recordingSink{}, 1, quiet)
	// Not started: the single slot fills and the next enqueue drops.
	if !w.Enqueue(sample()) {
		t.Fatal("first Enqueue dropped")
	}
	if w.Enqueue(sample()) {
		t.Fatal("second Enqueue accepted on a full queue")
	}
}

func TestMessage_JSON(t *testing.T) {
	body, err := NewMessage(sample()).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for _, key := range []string{"id", "type", "priority", "title", "message", "trigger_date", "action_data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("message missing %q", key)
		}
	}
	if decoded["type"] != "BUDGET_EXCEEDED" || decoded["trigger_date"] != "2024-03-20T12:00:00Z" {
		t.Fatalf("decoded = %v", decoded)
	}
}
