// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/wanderlist/server/internal/models"
)

// Page selects one page of a listing. Pages are 1-based; Size is clamped by
// the implementation.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for this page.
func (p Page) Offset() int {
	if p.Number <= 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// Store defines the interface for entity storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Error contract: implementations return apperror kinds — ErrNotFound for
// missing rows, ErrConflict for unique-constraint violations (including ones
// lost in a race after a service pre-check), ErrInvalidOperation for check
// violations, and ErrUnavailable for everything else. Cascade deletes
// (owner → lists → places/collaborators, user → follows/notifications) are
// guaranteed by the schema, never by application-level recursion.
type Store interface {
	// --- users ---

	// CreateUser persists a new user. The ID and timestamps are populated by
	// the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetOrCreateUserByFirebase resolves a verified token to a local user,
	// creating the row on first contact. Lookup order: firebase UID, then
	// email (relinking the UID when it changed). Runs in one transaction.
	// The boolean reports whether a new row was created.
	GetOrCreateUserByFirebase(ctx context.Context, firebaseUID, email, displayName, profilePicture string) (*models.User, bool, error)

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername matches the handle case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// SetUsername assigns a unique handle. Uniqueness is case-insensitive
	// and backed by the store's constraint; a lost race surfaces as
	// ErrConflict.
	SetUsername(ctx context.Context, userID, username string) error

	// UpdateUserProfile changes display name and/or picture. Nil means leave
	// unchanged.
	UpdateUserProfile(ctx context.Context, userID string, displayName, profilePicture *string) (*models.User, error)

	// UpdatePrivacySettings flips the user's privacy flags. Nil fields are
	// left unchanged.
	UpdatePrivacySettings(ctx context.Context, userID string, settings models.PrivacySettings) (*models.User, error)

	// DeleteUser removes the account; lists, places, edges and notifications
	// go with it via cascades.
	DeleteUser(ctx context.Context, id string) error

	// SearchUsers finds users by email/username fragment, excluding the
	// viewer, annotated with the viewer's follow state.
	SearchUsers(ctx context.Context, viewerID, query string, page Page) ([]models.UserWithFollow, int, error)

	// --- lists ---

	CreateList(ctx context.Context, list *models.List) error
	GetList(ctx context.Context, id string) (*models.List, error)

	// UpdateList persists name, description and visibility flags.
	UpdateList(ctx context.Context, list *models.List) error

	// DeleteList removes the list; places and collaborator rows cascade.
	DeleteList(ctx context.Context, id string) error

	ListsByOwner(ctx context.Context, ownerID string, page Page) ([]models.ListSummary, int, error)

	// PublicLists returns effectively-public lists, newest first.
	PublicLists(ctx context.Context, page Page) ([]models.ListSummary, int, error)

	// RecentLists returns effectively-public lists plus the viewer's own,
	// newest first.
	RecentLists(ctx context.Context, viewerID string, page Page) ([]models.ListSummary, int, error)

	// SearchLists matches name/description case-insensitively, restricted to
	// what the viewer may see. An empty viewerID means anonymous.
	SearchLists(ctx context.Context, viewerID, query string, page Page) ([]models.ListSummary, int, error)

	// --- places ---

	// AddPlace appends a place to a list. A duplicate (list, external place)
	// pair is ErrConflict.
	AddPlace(ctx context.Context, place *models.Place) error

	GetPlace(ctx context.Context, listID, placeID string) (*models.Place, error)
	UpdatePlace(ctx context.Context, place *models.Place) error
	DeletePlace(ctx context.Context, listID, placeID string) error
	PlacesByList(ctx context.Context, listID string, page Page) ([]models.Place, int, error)

	// --- collaborators ---

	// AddCollaborator inserts the (list, user) edge; a duplicate is
	// ErrConflict.
	AddCollaborator(ctx context.Context, listID, userID string) error

	// RemoveCollaborator deletes the edge; a missing edge is ErrNotFound.
	RemoveCollaborator(ctx context.Context, listID, userID string) error

	IsCollaborator(ctx context.Context, listID, userID string) (bool, error)
	Collaborators(ctx context.Context, listID string) ([]models.User, error)

	// CollaboratorEmails returns just the email column, for list detail
	// views.
	CollaboratorEmails(ctx context.Context, listID string) ([]string, error)

	// --- follows ---

	// CreateFollow inserts the directed edge; a duplicate is ErrConflict and
	// a reflexive edge is ErrInvalidOperation (backed by the CHECK
	// constraint).
	CreateFollow(ctx context.Context, followerID, followedID string) error

	// DeleteFollow removes the edge; a missing edge is ErrNotFound.
	DeleteFollow(ctx context.Context, followerID, followedID string) error

	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)

	// Followers lists users following userID, annotated with whether userID
	// follows them back.
	Followers(ctx context.Context, userID string, page Page) ([]models.UserWithFollow, int, error)

	// Following lists users userID follows.
	Following(ctx context.Context, userID string, page Page) ([]models.UserWithFollow, int, error)

	// --- notifications ---

	// CreateNotification persists a new notification. Only the dispatcher
	// calls this.
	CreateNotification(ctx context.Context, n *models.Notification) error

	// Notifications lists a user's notifications, newest first.
	Notifications(ctx context.Context, userID string, unreadOnly bool, page Page) ([]models.Notification, int, error)

	// MarkNotificationRead flips is_read. Marking an already-read
	// notification succeeds; a notification that does not exist or belongs
	// to another user is ErrNotFound.
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error

	UnreadNotificationCount(ctx context.Context, userID string) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
