// Package access holds the visibility and permission rules for lists and
// profiles. The functions here are pure: they decide from values already
// loaded, so the same rules apply identically in services and in SQL-side
// filters.
package access

import "github.com/wanderlist/server/internal/models"

// Visibility is the effective visibility of a list.
type Visibility int

const (
	// Private lists are visible to the owner and collaborators only.
	Private Visibility = iota
	// Public lists are visible to everyone, including anonymous viewers.
	Public
)

// EffectiveVisibility reconciles the two visibility flags a list carries.
// The explicit IsPublic flag wins when set; rows that predate it fall back
// to the legacy IsPrivate flag.
func EffectiveVisibility(list *models.List) Visibility {
	if list.IsPublic != nil {
		if *list.IsPublic {
			return Public
		}
		return Private
	}
	if list.IsPrivate {
		return Private
	}
	return Public
}

// CanReadList reports whether actorID may view the list and its places.
// Public lists are readable by anyone; private lists only by the owner and
// collaborators. An empty actorID means anonymous.
func CanReadList(actorID string, list *models.List, isCollaborator bool) bool {
	if EffectiveVisibility(list) == Public {
		return true
	}
	if actorID == "" {
		return false
	}
	return actorID == list.OwnerID || isCollaborator
}

// CanWriteList reports whether actorID may mutate the list's places and
// metadata. Owners and collaborators write; visibility does not grant
// writes.
func CanWriteList(actorID string, list *models.List, isCollaborator bool) bool {
	if actorID == "" {
		return false
	}
	return actorID == list.OwnerID || isCollaborator
}

// CanManageList reports whether actorID may delete the list or manage its
// collaborators. Owner only.
func CanManageList(actorID string, list *models.List) bool {
	return actorID != "" && actorID == list.OwnerID
}

// CanReadProfile reports whether actorID may view the user's full profile.
// Users always see themselves; otherwise the profile_is_public flag decides.
func CanReadProfile(actorID string, user *models.User) bool {
	if actorID != "" && actorID == user.ID {
		return true
	}
	return user.ProfileIsPublic
}
