package models

// Place is an entry in a list. The same external place may appear in many
// lists, but only once per list: the store enforces a unique
// (list_id, place_id) pair.
type Place struct {
	// ID is the unique database identifier for this entry (UUID format).
	ID string

	// ListID references the containing list. Deleting the list cascades here.
	ListID string

	// PlaceID is the external identifier for the place (e.g. a Google Place
	// ID). Unique within a list.
	PlaceID string

	// Name is the display name of the place.
	Name string

	// Address is the formatted address.
	Address string

	// Latitude and Longitude are optional coordinates.
	Latitude  *float64
	Longitude *float64

	// Rating is a user-defined label (e.g. "MUST_VISIT", "WORTH_VISITING").
	Rating string

	// Notes is the user's free-form note about the place.
	Notes string

	// VisitStatus is a user-defined label (e.g. "VISITED", "WANT_TO_VISIT").
	VisitStatus string

	// CreatedAt is the Unix timestamp when the place was added to the list.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}
