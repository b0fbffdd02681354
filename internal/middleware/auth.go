// Package middleware provides the HTTP middleware chain: authentication,
// request logging and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wanderlist/server/internal/auth"
	"github.com/wanderlist/server/internal/service"
)

type contextKey string

const userIDKey contextKey = "user_id"

// GetUserID returns the authenticated user's ID from the request context, or
// "" when the request is anonymous.
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID stamps a user ID onto the context. Exported for handler tests.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Authenticator resolves bearer tokens to local user IDs. Session JWTs are
// tried first; a Firebase ID token is accepted as a fallback so clients can
// call any endpoint straight after sign-in, creating the account on first
// contact.
type Authenticator struct {
	jwt      *auth.JWTManager
	verifier auth.Verifier
	users    *service.UserService
}

// NewAuthenticator creates the middleware. verifier may be nil, in which
// case only session JWTs are accepted.
func NewAuthenticator(jwt *auth.JWTManager, verifier auth.Verifier, users *service.UserService) *Authenticator {
	return &Authenticator{jwt: jwt, verifier: verifier, users: users}
}

// RequireAuth rejects requests without a valid token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.resolve(r)
		if err != nil {
			unauthorized(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth resolves a token when present but lets anonymous requests
// through. Discovery endpoints use this: a viewer ID widens what they see.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := a.resolve(r)
		if err != nil {
			// A token was presented but is bad; that is an error, not
			// anonymity.
			unauthorized(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *Authenticator) resolve(r *http.Request) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", auth.ErrMissingToken
	}

	if claims, err := a.jwt.Validate(token); err == nil {
		return claims.UserID, nil
	}

	if a.verifier == nil {
		return "", auth.ErrInvalidToken
	}
	data, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		return "", err
	}
	user, _, err := a.users.GetOrCreateByFirebase(r.Context(),
		data.UID, data.Email, data.DisplayName, data.ProfilePicture)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
