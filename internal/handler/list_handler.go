package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/server/internal/middleware"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/service"
)

// ListHandler serves list, place and collaborator endpoints.
type ListHandler struct {
	lists   *service.ListService
	collabs *service.CollabService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists *service.ListService, collabs *service.CollabService) *ListHandler {
	return &ListHandler{lists: lists, collabs: collabs}
}

type listRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	list, err := h.lists.CreateList(r.Context(), middleware.GetUserID(r.Context()), service.ListInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toListView(list))
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.lists.GetList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDetailView(detail))
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	list, err := h.lists.UpdateList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), service.ListInput{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListView(list))
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.DeleteList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ListHandler) Mine(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	lists, total, err := h.lists.MyLists(r.Context(), middleware.GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toListViews(lists), total, page)
}

func (h *ListHandler) Public(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	lists, total, err := h.lists.PublicLists(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toListViews(lists), total, page)
}

func (h *ListHandler) Recent(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	lists, total, err := h.lists.RecentLists(r.Context(), middleware.GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toListViews(lists), total, page)
}

func (h *ListHandler) Search(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	lists, total, err := h.lists.SearchLists(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("q"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toListViews(lists), total, page)
}

type placeRequest struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Rating      string   `json:"rating"`
	Notes       string   `json:"notes"`
	VisitStatus string   `json:"visit_status"`
}

func (req *placeRequest) toModel() *models.Place {
	return &models.Place{
		PlaceID:     req.PlaceID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Rating:      req.Rating,
		Notes:       req.Notes,
		VisitStatus: req.VisitStatus,
	}
}

func (h *ListHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	place, err := h.lists.AddPlace(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), req.toModel())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlaceView(place))
}

func (h *ListHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	place := req.toModel()
	place.ID = chi.URLParam(r, "placeID")
	updated, err := h.lists.UpdatePlace(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), place)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlaceView(updated))
}

func (h *ListHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	err := h.lists.DeletePlace(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "listID"), chi.URLParam(r, "placeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ListHandler) Places(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	places, total, err := h.lists.ListPlaces(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, toPlaceViews(places), total, page)
}

type collaboratorRequest struct {
	Email string `json:"email"`
}

func (h *ListHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	var req collaboratorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	invited, err := h.collabs.AddCollaborator(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserView(invited))
}

func (h *ListHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	err := h.collabs.RemoveCollaborator(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "listID"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *ListHandler) Collaborators(w http.ResponseWriter, r *http.Request) {
	users, err := h.collabs.ListCollaborators(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "listID"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	writeJSON(w, http.StatusOK, views)
}
