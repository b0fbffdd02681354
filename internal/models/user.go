package models

// User represents a registered account.
//
// Accounts are created on first authenticated contact: identity itself lives
// in Firebase, and the row here carries the app-side profile and privacy
// settings. Users are never hard-deleted by the domain layer except through
// DeleteAccount, which relies on the store's cascades to remove lists,
// places, follow edges and notifications.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// FirebaseUID is the external identity provider reference. Unique when
	// set; it can be relinked if the same email reappears under a new UID.
	FirebaseUID string

	// Email is the user's email address (unique).
	Email string

	// Username is the unique handle chosen after signup. Empty until set;
	// uniqueness is case-insensitive.
	Username string

	// DisplayName is the name shown to other users.
	DisplayName string

	// ProfilePicture is a URL to the user's avatar.
	ProfilePicture string

	// ProfileIsPublic controls whether other users may view this profile.
	ProfileIsPublic bool

	// ListsArePublic is the default visibility for newly created lists.
	ListsArePublic bool

	// AllowAnalytics records the user's analytics consent.
	AllowAnalytics bool

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// UserWithFollow decorates a user with follow state relative to a viewer.
// Returned by follower listings and user search.
type UserWithFollow struct {
	User

	// IsFollowing reports whether the viewing user follows this user.
	IsFollowing bool
}

// PrivacySettings is the subset of User a user can toggle on the settings
// screen. Nil fields mean "leave unchanged" on update.
type PrivacySettings struct {
	ProfileIsPublic *bool
	ListsArePublic  *bool
	AllowAnalytics  *bool
}
