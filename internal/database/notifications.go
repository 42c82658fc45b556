package database

import (
	"context"
	"fmt"
	"time"

	"eventhorizon/internal/models"
)

func (db *DB) AppendNotification(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	query := `INSERT INTO notifications (id, user_id, title, message, type, read, link, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.Read,
		n.Link,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

func (db *DB) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	query := `SELECT id, user_id, title, message, type, read, link, created_at
			FROM notifications WHERE user_id = ? ORDER BY created_at`
	return db.queryNotifications(ctx, query, userID)
}

func (db *DB) ListNotificationsAfter(ctx context.Context, userID string, since time.Time) ([]*models.Notification, error) {
	query := `SELECT id, user_id, title, message, type, read, link, created_at
			FROM notifications WHERE user_id = ? AND created_at > ? ORDER BY created_at`
	return db.queryNotifications(ctx, query, userID, since)
}

func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	query := `UPDATE notifications SET read = 1 WHERE user_id = ?`
	_, err := db.db.ExecContext(ctx, query, userID)
	return err
}

func (db *DB) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]*models.Notification, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&n.Read,
			&n.Link,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}
