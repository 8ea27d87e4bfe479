// Package notify delivers generated notifications to the ledger and to
// optional outbound channels.
package notify

import (
	"context"
	"log/slog"

	"github.com/theirongolddev/spendlens/internal/model"
)

// Sink accepts notifications.
type Sink interface {
	SaveNotification(ctx context.Context, n model.Notification) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n model.Notification) error

// SaveNotification calls f.
func (f SinkFunc) SaveNotification(ctx context.Context, n model.Notification) error {
	return f(ctx, n)
}

// Multi fans a notification out to several sinks. Primary is authoritative:
// its error is returned. Errors from Others are logged.
type Multi struct {
	Primary Sink
	Others  []Sink
	Logger  *slog.Logger
}

// SaveNotification saves to Primary, then to each of Others.
func (m *Multi) SaveNotification(ctx context.Context, n model.Notification) error {
	if err := m.Primary.SaveNotification(ctx, n); err != nil {
		return err
	}
	for _, s := range m.Others {
		if err := s.SaveNotification(ctx, n); err != nil {
			m.logger().Warn("secondary notification sink failed", "id", n.ID, "type", n.Type, "error", err)
		}
	}
	return nil
}

func (m *Multi) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
