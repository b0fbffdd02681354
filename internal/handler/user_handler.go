package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/server/internal/middleware"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/service"
)

// UserHandler serves account, profile and follow endpoints.
type UserHandler struct {
	users   *service.UserService
	follows *service.FollowService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, follows *service.FollowService) *UserHandler {
	return &UserHandler{users: users, follows: follows}
}

// Me returns the authenticated user's own account.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

// Profile returns another user's profile, privacy permitting.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	view := toUserView(&profile.User)
	following := profile.IsFollowing
	view.IsFollowing = &following
	writeJSON(w, http.StatusOK, view)
}

type usernameRequest struct {
	Username string `json:"username"`
}

func (h *UserHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.SetUsername(r.Context(), middleware.GetUserID(r.Context()), req.Username); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username})
}

func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	available, err := h.users.CheckUsername(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

type profileRequest struct {
	DisplayName    *string `json:"display_name"`
	ProfilePicture *string `json:"profile_picture"`
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req.DisplayName, req.ProfilePicture)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

type privacyRequest struct {
	ProfileIsPublic *bool `json:"profile_is_public"`
	ListsArePublic  *bool `json:"lists_are_public"`
	AllowAnalytics  *bool `json:"allow_analytics"`
}

func (h *UserHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	var req privacyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.UpdatePrivacy(r.Context(), middleware.GetUserID(r.Context()), models.PrivacySettings{
		ProfileIsPublic: req.ProfileIsPublic,
		ListsArePublic:  req.ListsArePublic,
		AllowAnalytics:  req.AllowAnalytics,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteAccount(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	users, total, err := h.users.SearchUsers(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("q"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toUserViews(users), total, page)
}

// Follow creates the edge actor → target.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	err := h.follows.Follow(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	err := h.follows.Unfollow(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	users, total, err := h.follows.Followers(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userID"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toUserViews(users), total, page)
}

func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	users, total, err := h.follows.Following(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "userID"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toUserViews(users), total, page)
}
