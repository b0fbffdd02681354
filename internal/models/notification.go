package models

// Notification is a message delivered to one recipient in reaction to a
// committed domain event (new follower, collaboration invite). Rows are
// created only by the notification dispatcher and, once written, the only
// permitted mutation is flipping IsRead.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string

	// UserID references the recipient. Deleting the user cascades here.
	UserID string

	// Title is the short headline shown in the notification list.
	Title string

	// Message is the rendered body text.
	Message string

	// IsRead reports whether the recipient has seen the notification.
	IsRead bool

	// Timestamp is the Unix timestamp when the notification was created.
	Timestamp int64
}
