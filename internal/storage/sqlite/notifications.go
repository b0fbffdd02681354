package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

// CreateNotification persists a new notification.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp == 0 {
		n.Timestamp = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, title, message, is_read, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Title, n.Message, n.IsRead, n.Timestamp,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", n.UserID)
		}
		return apperror.Unavailable("creating notification", err)
	}
	return nil
}

// Notifications lists a user's notifications, newest first.
func (s *SQLiteStore) Notifications(ctx context.Context, userID string, unreadOnly bool, page storage.Page) ([]models.Notification, int, error) {
	page = clamp(page)

	where := `user_id = ?`
	if unreadOnly {
		where += ` AND is_read = 0`
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE `+where, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, apperror.Unavailable("counting notifications", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, message, is_read, timestamp
		FROM notifications
		WHERE `+where+`
		ORDER BY timestamp DESC, id DESC
		LIMIT ? OFFSET ?`,
		userID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, apperror.Unavailable("listing notifications", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.Timestamp); err != nil {
			return nil, 0, apperror.Unavailable("scanning notification row", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Unavailable("iterating notification rows", err)
	}
	return out, total, nil
}

// MarkNotificationRead flips is_read. Marking an already-read notification
// succeeds; a notification that does not exist or belongs to another user is
// not found.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications WHERE id = ? AND user_id = ?
		)`,
		notificationID, userID,
	).Scan(&exists)
	if err != nil {
		return apperror.Unavailable("checking notification", err)
	}
	if !exists {
		return apperror.NotFound("notification", notificationID)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`,
		notificationID, userID)
	if err != nil {
		return apperror.Unavailable("marking notification read", err)
	}
	return nil
}

// UnreadNotificationCount counts the user's unread notifications.
func (s *SQLiteStore) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, apperror.Unavailable("counting unread notifications", err)
	}
	return count, nil
}
