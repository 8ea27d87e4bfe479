package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/theirongolddev/spendlens/internal/model"
)

// Worker forwards notifications to a sink on its own goroutine so slow
// outbound delivery never blocks alert evaluation.
type Worker struct {
	ch     chan model.Notification
	sink   Sink
	logger *slog.Logger
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorker returns a worker with the given queue size. Call Start.
func NewWorker(sink Sink, bufferSize int, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ch:     make(chan model.Notification, bufferSize),
		sink:   sink,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the delivery goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				w.logger.Info("draining notifications before shutdown", "remaining", len(w.ch))
				for len(w.ch) > 0 {
					n := <-w.ch
					if err := w.sink.SaveNotification(context.Background(), n); err != nil {
						w.logger.Error("failed to deliver notification during shutdown", "error", err, "type", n.Type)
					}
				}
				return
			case n := <-w.ch:
				if err := w.sink.SaveNotification(w.ctx, n); err != nil {
					w.logger.Error("failed to deliver notification", "error", err, "type", n.Type)
				}
			}
		}
	}()
}

// Enqueue queues n without blocking. It reports false when the queue is
// full and n was dropped.
func (w *Worker) Enqueue(n model.Notification) bool {
	select {
	case w.ch <- n:
		return true
	default:
		w.logger.Warn("notification queue full, dropping notification", "type", n.Type)
		return false
	}
}

// SaveNotification enqueues n, making the worker usable as a Sink.
func (w *Worker) SaveNotification(_ context.Context, n model.Notification) error {
	w.Enqueue(n)
	return nil
}

// Shutdown stops the goroutine after draining queued notifications.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
