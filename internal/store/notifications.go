package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/theirongolddev/spendlens/internal/apperr"
	"github.com/theirongolddev/spendlens/internal/model"
)

const notificationColumns = "id, title, message, type, priority, trigger_date, is_read, action_data"

// SaveNotification appends a notification. Saving an existing id is a no-op.
func (l *Ledger) SaveNotification(ctx context.Context, n model.Notification) error {
	data := n.ActionData
	if data == nil {
		data = map[string]string{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return apperr.Wrap("save notification", err)
	}

	_, err = l.db.ExecContext(ctx, `INSERT OR IGNORE INTO notifications
		(`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Message, string(n.Type), string(n.Priority),
		formatTime(n.TriggerDate), boolInt(n.Read), string(dataJSON),
	)
	if err != nil {
		return apperr.Database("save notification", err)
	}
	return nil
}

// Notifications returns notifications newest first. A limit of 0 or less
// returns all of them.
func (l *Ledger) Notifications(ctx context.Context, limit int, unreadOnly bool) ([]model.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications"
	if unreadOnly {
		query += " WHERE is_read = 0"
	}
	query += " ORDER BY trigger_date DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Database("notifications", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var typ, priority, trigger, data string
		var read int
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &typ, &priority, &trigger, &read, &data); err != nil {
			return nil, apperr.Database("notifications", err)
		}
		n.Type = model.NotificationType(typ)
		n.Priority = model.Priority(priority)
		n.TriggerDate = parseTime(trigger)
		n.Read = read == 1
		if data != "" && data != "{}" {
			_ = json.Unmarshal([]byte(data), &n.ActionData)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Database("notifications", err)
	}
	return out, nil
}

// MarkNotificationRead marks one notification read.
func (l *Ledger) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return apperr.Database("mark read", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("mark read", "notification "+id)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification read and returns how
// many changed.
func (l *Ledger) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	res, err := l.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE is_read = 0")
	if err != nil {
		return 0, apperr.Database("mark all read", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// UnreadNotificationCount returns the number of unread notifications.
func (l *Ledger) UnreadNotificationCount(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE is_read = 0").Scan(&n); err != nil {
		return 0, apperr.Database("unread count", err)
	}
	return n, nil
}

// DeleteNotificationsBefore prunes notifications triggered before t.
func (l *Ledger) DeleteNotificationsBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, "DELETE FROM notifications WHERE trigger_date < ?", formatTime(t))
	if err != nil {
		return 0, apperr.Database("prune notifications", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
