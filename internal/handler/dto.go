package handler

import "github.com/wanderlist/server/internal/models"

// View types are the JSON shapes of the API. They exist so internal fields
// (firebase_uid in particular) never leak into responses.

type userView struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	DisplayName     string `json:"display_name"`
	ProfilePicture  string `json:"profile_picture,omitempty"`
	ProfileIsPublic bool   `json:"profile_is_public"`
	ListsArePublic  bool   `json:"lists_are_public"`
	AllowAnalytics  bool   `json:"allow_analytics"`
	CreatedAt       int64  `json:"created_at"`
	IsFollowing     *bool  `json:"is_following,omitempty"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		ProfilePicture:  u.ProfilePicture,
		ProfileIsPublic: u.ProfileIsPublic,
		ListsArePublic:  u.ListsArePublic,
		AllowAnalytics:  u.AllowAnalytics,
		CreatedAt:       u.CreatedAt,
	}
}

func toUserViews(users []models.UserWithFollow) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		v := toUserView(&users[i].User)
		following := users[i].IsFollowing
		v.IsFollowing = &following
		out = append(out, v)
	}
	return out
}

type listView struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	IsPublic      bool     `json:"is_public"`
	PlaceCount    *int     `json:"place_count,omitempty"`
	IsOwner       *bool    `json:"is_owner,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
	CreatedAt     int64    `json:"created_at"`
	UpdatedAt     int64    `json:"updated_at"`
}

// effectivePublic mirrors access.EffectiveVisibility for serialization; the
// API exposes one boolean, not the legacy flag pair.
func effectivePublic(l *models.List) bool {
	if l.IsPublic != nil {
		return *l.IsPublic
	}
	return !l.IsPrivate
}

func toListView(l *models.List) listView {
	return listView{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Name:        l.Name,
		Description: l.Description,
		IsPublic:    effectivePublic(l),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toListDetailView(d *models.ListDetail) listView {
	v := toListView(&d.List)
	isOwner := d.IsOwner
	v.IsOwner = &isOwner
	if d.Collaborators == nil {
		v.Collaborators = []string{}
	} else {
		v.Collaborators = d.Collaborators
	}
	return v
}

func toListViews(lists []models.ListSummary) []listView {
	out := make([]listView, 0, len(lists))
	for i := range lists {
		v := toListView(&lists[i].List)
		count := lists[i].PlaceCount
		v.PlaceCount = &count
		out = append(out, v)
	}
	return out
}

type placeView struct {
	ID          string   `json:"id"`
	ListID      string   `json:"list_id"`
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Rating      string   `json:"rating,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	VisitStatus string   `json:"visit_status,omitempty"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

func toPlaceView(p *models.Place) placeView {
	return placeView{
		ID:          p.ID,
		ListID:      p.ListID,
		PlaceID:     p.PlaceID,
		Name:        p.Name,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Rating:      p.Rating,
		Notes:       p.Notes,
		VisitStatus: p.VisitStatus,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPlaceViews(places []models.Place) []placeView {
	out := make([]placeView, 0, len(places))
	for i := range places {
		out = append(out, toPlaceView(&places[i]))
	}
	return out
}

type notificationView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	Timestamp int64  `json:"timestamp"`
}

func toNotificationViews(notifications []models.Notification) []notificationView {
	out := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationView{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			Timestamp: n.Timestamp,
		})
	}
	return out
}
