package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/wanderlist/server/internal/access"
	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

// usernamePattern constrains handles to letters, digits and underscores,
// 3 to 30 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// UserService owns accounts, profiles and privacy settings.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// GetOrCreateByFirebase resolves a verified identity to a local account,
// creating it on first contact.
func (s *UserService) GetOrCreateByFirebase(ctx context.Context, firebaseUID, email, displayName, profilePicture string) (*models.User, bool, error) {
	if firebaseUID == "" {
		return nil, false, apperror.ValidationFailed("firebase_uid", "firebase uid is required")
	}
	if email == "" {
		return nil, false, apperror.ValidationFailed("email", "email is required")
	}

	user, created, err := s.store.GetOrCreateUserByFirebase(ctx, firebaseUID, email, displayName, profilePicture)
	if err != nil {
		slog.Error("GetOrCreateByFirebase failed", "email", email, "error", err)
		return nil, false, err
	}
	if created {
		slog.Info("user created", "user_id", user.ID, "email", email)
	}
	return user, created, nil
}

// GetUser returns a user by ID without a privacy gate; callers needing the
// gate use GetProfile.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// GetProfile returns another user's profile if their privacy settings allow
// it, annotated with the viewer's follow state.
func (s *UserService) GetProfile(ctx context.Context, actorID, userID string) (*models.UserWithFollow, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !access.CanReadProfile(actorID, user) {
		return nil, apperror.NotAuthorized("this profile is private")
	}

	following := false
	if actorID != "" && actorID != userID {
		following, err = s.store.IsFollowing(ctx, actorID, userID)
		if err != nil {
			return nil, err
		}
	}
	return &models.UserWithFollow{User: *user, IsFollowing: following}, nil
}

// SetUsername assigns the actor's unique handle.
func (s *UserService) SetUsername(ctx context.Context, userID, username string) error {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return apperror.ValidationFailed("username",
			"username must be 3-30 characters of letters, digits or underscores")
	}
	if err := s.store.SetUsername(ctx, userID, username); err != nil {
		return err
	}
	slog.Info("username set", "user_id", userID, "username", username)
	return nil
}

// CheckUsername reports whether a handle is valid and unclaimed.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return false, apperror.ValidationFailed("username",
			"username must be 3-30 characters of letters, digits or underscores")
	}
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// UpdateProfile changes display name and/or picture. Nil means unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, displayName, profilePicture *string) (*models.User, error) {
	if displayName == nil && profilePicture == nil {
		return s.store.GetUserByID(ctx, userID)
	}
	return s.store.UpdateUserProfile(ctx, userID, displayName, profilePicture)
}

// UpdatePrivacy flips the actor's privacy flags.
func (s *UserService) UpdatePrivacy(ctx context.Context, userID string, settings models.PrivacySettings) (*models.User, error) {
	user, err := s.store.UpdatePrivacySettings(ctx, userID, settings)
	if err != nil {
		return nil, err
	}
	slog.Info("privacy settings updated", "user_id", userID)
	return user, nil
}

// DeleteAccount removes the actor's account and, through the store's
// cascades, all lists, places, edges and notifications.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		slog.Error("DeleteAccount failed", "user_id", userID, "error", err)
		return err
	}
	slog.Info("account deleted", "user_id", userID)
	return nil
}

// SearchUsers finds users by email or username fragment.
func (s *UserService) SearchUsers(ctx context.Context, viewerID, query string, page storage.Page) ([]models.UserWithFollow, int, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, 0, apperror.ValidationFailed("q", "search query must be at least 2 characters")
	}
	return s.store.SearchUsers(ctx, viewerID, query, page)
}
