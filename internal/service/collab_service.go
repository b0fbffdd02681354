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

// CollabService manages the collaborator edges of lists.
type CollabService struct {
	store      storage.Store
	dispatcher *notify.Dispatcher
}

// NewCollabService creates a new CollabService.
func NewCollabService(store storage.Store, dispatcher *notify.Dispatcher) *CollabService {
	return &CollabService{store: store, dispatcher: dispatcher}
}

// AddCollaborator invites the user behind email onto the list. Owner only.
// The invited user is notified after the edge is committed.
func (s *CollabService) AddCollaborator(ctx context.Context, actorID, listID, email string) (*models.User, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageList(actorID, list) {
		return nil, apperror.NotAuthorized("only the owner can add collaborators")
	}

	invited, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invited.ID == list.OwnerID {
		return nil, apperror.InvalidOperation("the owner is already on the list")
	}

	if err := s.store.AddCollaborator(ctx, listID, invited.ID); err != nil {
		slog.Error("AddCollaborator failed", "list_id", listID, "user_id", invited.ID, "error", err)
		return nil, err
	}
	slog.Info("collaborator added", "list_id", listID, "user_id", invited.ID, "actor_id", actorID)

	inviter, err := s.store.GetUserByID(ctx, actorID)
	inviterName := ""
	if err == nil {
		inviterName = displayName(inviter)
	}
	s.dispatcher.Dispatch(notify.CollaboratorAdded{
		RecipientID: invited.ID,
		ListName:    list.Name,
		InviterName: inviterName,
	})
	return invited, nil
}

// RemoveCollaborator removes the edge. The owner may remove anyone;
// collaborators may remove themselves (leave the list).
func (s *CollabService) RemoveCollaborator(ctx context.Context, actorID, listID, userID string) error {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if !access.CanManageList(actorID, list) && actorID != userID {
		return apperror.NotAuthorized("only the owner can remove other collaborators")
	}

	if err := s.store.RemoveCollaborator(ctx, listID, userID); err != nil {
		return err
	}
	slog.Info("collaborator removed", "list_id", listID, "user_id", userID, "actor_id", actorID)
	return nil
}

// ListCollaborators returns the users on a list the actor may read.
func (s *CollabService) ListCollaborators(ctx context.Context, actorID, listID string) ([]models.User, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	isCollaborator := false
	if actorID != "" && actorID != list.OwnerID {
		isCollaborator, err = s.store.IsCollaborator(ctx, listID, actorID)
		if err != nil {
			return nil, err
		}
	}
	if !access.CanReadList(actorID, list, isCollaborator) {
		return nil, apperror.NotAuthorized("you do not have access to this list")
	}
	return s.store.Collaborators(ctx, listID)
}

// displayName picks the friendliest available name for notification text.
func displayName(user *models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}
