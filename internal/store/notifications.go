package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
)

// CreateNotification inserts a notification row.
func (db *DB) CreateNotification(n *models.Notification) error {
	_, err := db.conn.Exec(`
		INSERT INTO notifications (id, user_id, title, message, type, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: create notification: %w", err)
	}
	return nil
}

// GetNotification returns the notification with the given id.
func (db *DB) GetNotification(id uuid.UUID) (*models.Notification, error) {
	row := db.conn.QueryRow(`
		SELECT id, user_id, title, message, type, read, created_at
		FROM notifications WHERE id = ?
	`, id)
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get notification: %w", err)
	}
	return &n, nil
}

// ListNotifications returns a user's notifications, newest first.
func (db *DB) ListNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	q := `
		SELECT id, user_id, title, message, type, read, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		q += ` AND read = 0`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := db.conn.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags one notification as read.
func (db *DB) MarkNotificationRead(id uuid.UUID) error {
	res, err := db.conn.Exec(`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: mark read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification of one
// user as read and returns the number of rows affected.
func (db *DB) MarkAllNotificationsRead(userID uuid.UUID) (int, error) {
	res, err := db.conn.Exec(`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("store: mark all read: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// CountUnreadNotifications returns the unread count for a user.
func (db *DB) CountUnreadNotifications(userID uuid.UUID) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count unread: %w", err)
	}
	return n, nil
}
