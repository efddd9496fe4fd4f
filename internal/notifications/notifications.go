package notifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound marks a lookup that matched no notification for the caller.
var ErrNotFound = errors.New("notification not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// Append records a notification for its recipient.
func (c *Conf) Append(ctx context.Context, n Notification) (Notification, error) {
	if n.UserID == "" {
		return Notification{}, fmt.Errorf("notification recipient is required")
	}
	n.ID = uuid.NewString()
	err := c.db.QueryRowContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, order_id, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), false, NOW())
		 RETURNING created_at`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.OrderID,
	).Scan(&n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("inserting notification: %w", err)
	}
	return n, nil
}

// ListForUser returns the recipient's notifications, newest first.
func (c *Conf) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, message, COALESCE(order_id, ''), is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.OrderID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications for the recipient.
func (c *Conf) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the recipient's notifications as read.
func (c *Conf) MarkRead(ctx context.Context, notificationID, userID string) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, notificationID)
	}
	return nil
}
