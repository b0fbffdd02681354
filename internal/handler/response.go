// Package handler exposes the HTTP API. Handlers decode requests, call
// services and translate domain errors into status codes; they hold no
// business rules of their own.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/storage"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// pageResponse wraps a paginated listing.
type pageResponse struct {
	Items any `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain error kinds onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperror.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}

	body := errorResponse{Error: err.Error()}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.Field = appErr.Field
	}
	if status == http.StatusInternalServerError {
		slog.Error("unhandled error", "error", err)
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.ValidationFailed("body", "invalid request body")
	}
	return nil
}

// pageFromQuery reads ?page= and ?size= with the store applying bounds.
func pageFromQuery(r *http.Request) storage.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return storage.Page{Number: page, Size: size}
}

// writePage emits the standard pagination envelope. items must never be
// JSON null, so nil slices are handled by the caller passing a typed slice.
func writePage(w http.ResponseWriter, items any, total int, page storage.Page) {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = 20
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Items: items,
		Total: total,
		Page:  page.Number,
		Size:  page.Size,
	})
}
