package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wanderlist/server/internal/access"
	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

// ListService owns list and place operations. Every read and write goes
// through the access package first, with the collaborator edge loaded from
// the store where the rule needs it.
type ListService struct {
	store storage.Store
}

// NewListService creates a new ListService with the given storage backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// ListInput carries the mutable list fields.
type ListInput struct {
	Name string

	// Description: nil means "leave unchanged" on update; an empty string
	// clears it.
	Description *string

	// IsPublic is the requested visibility. Nil on create means "use the
	// owner's default"; nil on update means "leave unchanged".
	IsPublic *bool
}

// CreateList creates a list owned by actorID. When the input does not choose
// a visibility, the owner's lists_are_public default decides.
func (s *ListService) CreateList(ctx context.Context, actorID string, input ListInput) (*models.List, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "list name is required")
	}

	isPublic := input.IsPublic
	if isPublic == nil {
		owner, err := s.store.GetUserByID(ctx, actorID)
		if err != nil {
			return nil, err
		}
		v := owner.ListsArePublic
		isPublic = &v
	}

	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	list := &models.List{
		OwnerID:     actorID,
		Name:        name,
		Description: description,
		IsPrivate:   !*isPublic,
		IsPublic:    isPublic,
	}
	if err := s.store.CreateList(ctx, list); err != nil {
		slog.Error("CreateList failed", "owner_id", actorID, "error", err)
		return nil, err
	}

	slog.Info("list created", "list_id", list.ID, "owner_id", actorID)
	return list, nil
}

// GetList returns the full detail view of a list the actor may read.
func (s *ListService) GetList(ctx context.Context, actorID, listID string) (*models.ListDetail, error) {
	list, _, err := s.loadForRead(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	emails, err := s.store.CollaboratorEmails(ctx, listID)
	if err != nil {
		return nil, err
	}
	return &models.ListDetail{
		List:          *list,
		IsOwner:       actorID != "" && actorID == list.OwnerID,
		Collaborators: emails,
	}, nil
}

// UpdateList changes name, description and visibility. Collaborators may
// edit metadata like any other write; only deletion and collaborator
// management stay owner-only.
func (s *ListService) UpdateList(ctx context.Context, actorID, listID string, input ListInput) (*models.List, error) {
	list, err := s.loadForWrite(ctx, actorID, listID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		list.Name = name
	}
	if input.Description != nil {
		list.Description = *input.Description
	}
	if input.IsPublic != nil {
		list.IsPublic = input.IsPublic
		list.IsPrivate = !*input.IsPublic
	}

	if err := s.store.UpdateList(ctx, list); err != nil {
		slog.Error("UpdateList failed", "list_id", listID, "error", err)
		return nil, err
	}
	return list, nil
}

// DeleteList removes a list and everything on it. Owner only.
func (s *ListService) DeleteList(ctx context.Context, actorID, listID string) error {
	if _, err := s.loadForManage(ctx, actorID, listID); err != nil {
		return err
	}
	if err := s.store.DeleteList(ctx, listID); err != nil {
		slog.Error("DeleteList failed", "list_id", listID, "error", err)
		return err
	}
	slog.Info("list deleted", "list_id", listID, "owner_id", actorID)
	return nil
}

// MyLists returns the actor's own lists.
func (s *ListService) MyLists(ctx context.Context, actorID string, page storage.Page) ([]models.ListSummary, int, error) {
	return s.store.ListsByOwner(ctx, actorID, page)
}

// PublicLists returns effectively-public lists for anonymous discovery.
func (s *ListService) PublicLists(ctx context.Context, page storage.Page) ([]models.ListSummary, int, error) {
	return s.store.PublicLists(ctx, page)
}

// RecentLists returns the viewer's discovery feed: public lists plus their
// own, newest first.
func (s *ListService) RecentLists(ctx context.Context, viewerID string, page storage.Page) ([]models.ListSummary, int, error) {
	if viewerID == "" {
		return s.store.PublicLists(ctx, page)
	}
	return s.store.RecentLists(ctx, viewerID, page)
}

// SearchLists searches name and description within what the viewer may see.
func (s *ListService) SearchLists(ctx context.Context, viewerID, query string, page storage.Page) ([]models.ListSummary, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, apperror.ValidationFailed("q", "search query is required")
	}
	return s.store.SearchLists(ctx, viewerID, query, page)
}

// AddPlace appends a place to a list the actor may write to.
func (s *ListService) AddPlace(ctx context.Context, actorID, listID string, place *models.Place) (*models.Place, error) {
	if _, err := s.loadForWrite(ctx, actorID, listID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(place.Name) == "" {
		return nil, apperror.ValidationFailed("name", "place name is required")
	}
	if strings.TrimSpace(place.PlaceID) == "" {
		return nil, apperror.ValidationFailed("place_id", "external place id is required")
	}

	place.ListID = listID
	if err := s.store.AddPlace(ctx, place); err != nil {
		slog.Error("AddPlace failed", "list_id", listID, "place_id", place.PlaceID, "error", err)
		return nil, err
	}
	slog.Info("place added", "list_id", listID, "place_id", place.PlaceID, "actor_id", actorID)
	return place, nil
}

// UpdatePlace edits a place on a list the actor may write to.
func (s *ListService) UpdatePlace(ctx context.Context, actorID, listID string, place *models.Place) (*models.Place, error) {
	if _, err := s.loadForWrite(ctx, actorID, listID); err != nil {
		return nil, err
	}
	place.ListID = listID
	if err := s.store.UpdatePlace(ctx, place); err != nil {
		return nil, err
	}
	return s.store.GetPlace(ctx, listID, place.ID)
}

// DeletePlace removes a place from a list the actor may write to.
func (s *ListService) DeletePlace(ctx context.Context, actorID, listID, placeID string) error {
	if _, err := s.loadForWrite(ctx, actorID, listID); err != nil {
		return err
	}
	return s.store.DeletePlace(ctx, listID, placeID)
}

// ListPlaces returns the places on a list the actor may read.
func (s *ListService) ListPlaces(ctx context.Context, actorID, listID string, page storage.Page) ([]models.Place, int, error) {
	if _, _, err := s.loadForRead(ctx, actorID, listID); err != nil {
		return nil, 0, err
	}
	return s.store.PlacesByList(ctx, listID, page)
}

// loadForRead fetches the list and checks read access.
func (s *ListService) loadForRead(ctx context.Context, actorID, listID string) (*models.List, bool, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, false, err
	}
	isCollaborator := false
	if actorID != "" && actorID != list.OwnerID {
		isCollaborator, err = s.store.IsCollaborator(ctx, listID, actorID)
		if err != nil {
			return nil, false, err
		}
	}
	if !access.CanReadList(actorID, list, isCollaborator) {
		return nil, false, apperror.NotAuthorized("you do not have access to this list")
	}
	return list, isCollaborator, nil
}

// loadForWrite fetches the list and checks write access.
func (s *ListService) loadForWrite(ctx context.Context, actorID, listID string) (*models.List, error) {
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
	if !access.CanWriteList(actorID, list, isCollaborator) {
		return nil, apperror.NotAuthorized("you cannot modify this list")
	}
	return list, nil
}

// loadForManage fetches the list and checks owner-only access.
func (s *ListService) loadForManage(ctx context.Context, actorID, listID string) (*models.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageList(actorID, list) {
		return nil, apperror.NotAuthorized("only the owner can manage this list")
	}
	return list, nil
}
