package service

import (
	"context"

	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

// NotificationService exposes a user's notification inbox. Creation is not
// here: only the dispatcher writes notifications.
type NotificationService struct {
	store storage.Store
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store storage.Store) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page storage.Page) ([]models.Notification, int, error) {
	return s.store.Notifications(ctx, userID, unreadOnly, page)
}

// MarkRead marks one of the user's notifications as read. Marking an
// already-read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkNotificationRead(ctx, userID, notificationID)
}

// UnreadCount returns the badge count.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.UnreadNotificationCount(ctx, userID)
}
