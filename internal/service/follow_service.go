package service

import (
	"context"
	"log/slog"

	"github.com/wanderlist/server/internal/access"
	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/notify"
	"github.com/wanderlist/server/internal/storage"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	store      storage.Store
	dispatcher *notify.Dispatcher
}

// NewFollowService creates a new FollowService.
func NewFollowService(store storage.Store, dispatcher *notify.Dispatcher) *FollowService {
	return &FollowService{store: store, dispatcher: dispatcher}
}

// Follow creates the edge follower → followed and notifies the followed user
// after the edge is committed.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return apperror.InvalidOperation("cannot follow yourself")
	}
	// Make missing users surface before the edge insert does.
	if _, err := s.store.GetUserByID(ctx, followedID); err != nil {
		return err
	}

	if err := s.store.CreateFollow(ctx, followerID, followedID); err != nil {
		slog.Error("Follow failed", "follower_id", followerID, "followed_id", followedID, "error", err)
		return err
	}
	slog.Info("follow created", "follower_id", followerID, "followed_id", followedID)

	follower, err := s.store.GetUserByID(ctx, followerID)
	followerName := ""
	if err == nil {
		followerName = displayName(follower)
	}
	s.dispatcher.Dispatch(notify.NewFollower{
		RecipientID:  followedID,
		FollowerName: followerName,
	})
	return nil
}

// Unfollow removes the edge. A missing edge is not found.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if err := s.store.DeleteFollow(ctx, followerID, followedID); err != nil {
		return err
	}
	slog.Info("follow removed", "follower_id", followerID, "followed_id", followedID)
	return nil
}

// IsFollowing reports whether the directed edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.store.IsFollowing(ctx, followerID, followedID)
}

// Followers lists the users following userID. Viewing another user's
// followers requires their profile to be readable.
func (s *FollowService) Followers(ctx context.Context, actorID, userID string, page storage.Page) ([]models.UserWithFollow, int, error) {
	if err := s.requireProfileRead(ctx, actorID, userID); err != nil {
		return nil, 0, err
	}
	return s.store.Followers(ctx, userID, page)
}

// Following lists the users userID follows, under the same profile gate.
func (s *FollowService) Following(ctx context.Context, actorID, userID string, page storage.Page) ([]models.UserWithFollow, int, error) {
	if err := s.requireProfileRead(ctx, actorID, userID); err != nil {
		return nil, 0, err
	}
	return s.store.Following(ctx, userID, page)
}

func (s *FollowService) requireProfileRead(ctx context.Context, actorID, userID string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !access.CanReadProfile(actorID, user) {
		return apperror.NotAuthorized("this profile is private")
	}
	return nil
}
