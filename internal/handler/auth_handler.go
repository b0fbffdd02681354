package handler

import (
	"net/http"

	"github.com/wanderlist/server/internal/auth"
	"github.com/wanderlist/server/internal/service"
)

// AuthHandler exchanges a Firebase ID token for a session JWT.
type AuthHandler struct {
	verifier auth.Verifier
	jwt      *auth.JWTManager
	users    *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(verifier auth.Verifier, jwt *auth.JWTManager, users *service.UserService) *AuthHandler {
	return &AuthHandler{verifier: verifier, jwt: jwt, users: users}
}

type sessionRequest struct {
	IDToken string `json:"id_token"`
}

type sessionResponse struct {
	Token   string   `json:"token"`
	User    userView `json:"user"`
	Created bool     `json:"created"`
}

// CreateSession verifies the ID token, resolves (or creates) the local
// account and returns a session JWT.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IDToken == "" {
		unauthorizedJSON(w, "id_token is required")
		return
	}

	data, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		unauthorizedJSON(w, "invalid or expired authentication token")
		return
	}

	user, created, err := h.users.GetOrCreateByFirebase(r.Context(),
		data.UID, data.Email, data.DisplayName, data.ProfilePicture)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwt.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:   token,
		User:    toUserView(user),
		Created: created,
	})
}

func unauthorizedJSON(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: message})
}
