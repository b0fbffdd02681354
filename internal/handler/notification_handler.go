package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/server/internal/middleware"
	"github.com/wanderlist/server/internal/service"
)

// NotificationHandler serves the notification inbox.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, total, err := h.notifications.List(r.Context(), middleware.GetUserID(r.Context()), unreadOnly, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toNotificationViews(notifications), total, page)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.notifications.MarkRead(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "notificationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}
