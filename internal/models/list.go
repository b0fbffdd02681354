package models

// List is a named collection of places owned by exactly one user.
type List struct {
	// ID is the unique identifier for the list (UUID format).
	ID string

	// OwnerID references the owning user. Deleting the owner cascades here.
	OwnerID string

	// Name is the display name of the list.
	Name string

	// Description is optional free-form text.
	Description string

	// IsPrivate is the legacy visibility flag. Rows created before IsPublic
	// existed only have this one.
	IsPrivate bool

	// IsPublic is the newer, additive visibility flag. Nil means the row
	// predates the flag; when set it takes precedence over IsPrivate.
	// Never read these two directly — access.EffectiveVisibility reconciles
	// them into a single answer.
	IsPublic *bool

	// CreatedAt is the Unix timestamp when the list was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}

// ListSummary is the shape returned by discovery and pagination queries.
// PlaceCount is computed by the store in the same query.
type ListSummary struct {
	List

	PlaceCount int
}

// ListDetail is the full owner/collaborator view of a list.
type ListDetail struct {
	List

	// IsOwner reports whether the requesting user owns the list.
	IsOwner bool

	// Collaborators holds the email addresses of all collaborator users.
	Collaborators []string
}
