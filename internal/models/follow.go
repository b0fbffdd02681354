package models

// Follow is a directed edge between two users: the follower receives
// notifications about the followed user's public activity. Edges are unique
// and irreflexive; both properties are enforced by the store's constraints.
type Follow struct {
	FollowerID string
	FollowedID string

	// CreatedAt is the Unix timestamp when the edge was created.
	CreatedAt int64
}
