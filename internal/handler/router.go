package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderlist/server/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Lists         *ListHandler
	Users         *UserHandler
	Notifications *NotificationHandler
	Authn         *middleware.Authenticator
}

// NewRouter builds the full route tree. Discovery endpoints take optional
// auth (an identified viewer sees more); everything that mutates state
// requires it.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/session", h.Auth.CreateSession)

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.Authn.RequireAuth)
				r.Get("/me", h.Users.Me)
				r.Put("/me/profile", h.Users.UpdateProfile)
				r.Put("/me/privacy", h.Users.UpdatePrivacy)
				r.Put("/me/username", h.Users.SetUsername)
				r.Delete("/me", h.Users.DeleteAccount)
				r.Get("/search", h.Users.Search)
				r.Post("/{userID}/follow", h.Users.Follow)
				r.Delete("/{userID}/follow", h.Users.Unfollow)
			})
			r.Group(func(r chi.Router) {
				r.Use(h.Authn.OptionalAuth)
				r.Get("/username-available", h.Users.CheckUsername)
				r.Get("/{userID}", h.Users.Profile)
				r.Get("/{userID}/followers", h.Users.Followers)
				r.Get("/{userID}/following", h.Users.Following)
			})
		})

		r.Route("/lists", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.Authn.RequireAuth)
				r.Post("/", h.Lists.Create)
				r.Get("/", h.Lists.Mine)
				r.Put("/{listID}", h.Lists.Update)
				r.Delete("/{listID}", h.Lists.Delete)
				r.Post("/{listID}/places", h.Lists.AddPlace)
				r.Put("/{listID}/places/{placeID}", h.Lists.UpdatePlace)
				r.Delete("/{listID}/places/{placeID}", h.Lists.DeletePlace)
				r.Post("/{listID}/collaborators", h.Lists.AddCollaborator)
				r.Delete("/{listID}/collaborators/{userID}", h.Lists.RemoveCollaborator)
			})
			r.Group(func(r chi.Router) {
				r.Use(h.Authn.OptionalAuth)
				r.Get("/public", h.Lists.Public)
				r.Get("/recent", h.Lists.Recent)
				r.Get("/search", h.Lists.Search)
				r.Get("/{listID}", h.Lists.Get)
				r.Get("/{listID}/places", h.Lists.Places)
				r.Get("/{listID}/collaborators", h.Lists.Collaborators)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(h.Authn.RequireAuth)
			r.Get("/", h.Notifications.List)
			r.Get("/unread-count", h.Notifications.UnreadCount)
			r.Post("/{notificationID}/read", h.Notifications.MarkRead)
		})
	})

	return r
}
