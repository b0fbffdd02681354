package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

const placeColumns = `id, list_id, place_id, name, address, latitude, longitude,
	rating, notes, visit_status, created_at, updated_at`

func scanPlace(row rowScanner) (*models.Place, error) {
	var (
		place    models.Place
		lat, lng sql.NullFloat64
	)
	err := row.Scan(
		&place.ID,
		&place.ListID,
		&place.PlaceID,
		&place.Name,
		&place.Address,
		&lat,
		&lng,
		&place.Rating,
		&place.Notes,
		&place.VisitStatus,
		&place.CreatedAt,
		&place.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		v := lat.Float64
		place.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		place.Longitude = &v
	}
	return &place, nil
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// AddPlace appends a place to a list. The UNIQUE (list_id, place_id)
// constraint rejects adding the same external place twice.
func (s *SQLiteStore) AddPlace(ctx context.Context, place *models.Place) error {
	if place.ID == "" {
		place.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	place.CreatedAt = now
	place.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO places (id, list_id, place_id, name, address, latitude, longitude,
			rating, notes, visit_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		place.ID,
		place.ListID,
		place.PlaceID,
		place.Name,
		place.Address,
		nullableFloat(place.Latitude),
		nullableFloat(place.Longitude),
		place.Rating,
		place.Notes,
		place.VisitStatus,
		place.CreatedAt,
		place.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("place %s is already on this list", place.PlaceID))
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("list", place.ListID)
		}
		return apperror.Unavailable("adding place", err)
	}
	return nil
}

// GetPlace retrieves a place by list and row ID.
func (s *SQLiteStore) GetPlace(ctx context.Context, listID, placeID string) (*models.Place, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+placeColumns+` FROM places WHERE list_id = ? AND id = ?`, listID, placeID)
	place, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("place", placeID)
	}
	if err != nil {
		return nil, apperror.Unavailable("fetching place", err)
	}
	return place, nil
}

// UpdatePlace persists the mutable fields of a place.
func (s *SQLiteStore) UpdatePlace(ctx context.Context, place *models.Place) error {
	place.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE places SET name = ?, address = ?, latitude = ?, longitude = ?,
			rating = ?, notes = ?, visit_status = ?, updated_at = ?
		WHERE list_id = ? AND id = ?`,
		place.Name,
		place.Address,
		nullableFloat(place.Latitude),
		nullableFloat(place.Longitude),
		place.Rating,
		place.Notes,
		place.VisitStatus,
		place.UpdatedAt,
		place.ListID,
		place.ID,
	)
	if err != nil {
		return apperror.Unavailable("updating place", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("updating place", err)
	}
	if affected == 0 {
		return apperror.NotFound("place", place.ID)
	}
	return nil
}

// DeletePlace removes a place from a list.
func (s *SQLiteStore) DeletePlace(ctx context.Context, listID, placeID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM places WHERE list_id = ? AND id = ?`, listID, placeID)
	if err != nil {
		return apperror.Unavailable("deleting place", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("deleting place", err)
	}
	if affected == 0 {
		return apperror.NotFound("place", placeID)
	}
	return nil
}

// PlacesByList lists a list's places, oldest first so the list reads in the
// order places were added.
func (s *SQLiteStore) PlacesByList(ctx context.Context, listID string, page storage.Page) ([]models.Place, int, error) {
	page = clamp(page)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM places WHERE list_id = ?`, listID,
	).Scan(&total)
	if err != nil {
		return nil, 0, apperror.Unavailable("counting places", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE list_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?`,
		listID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, apperror.Unavailable("listing places", err)
	}
	defer rows.Close()

	var out []models.Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, 0, apperror.Unavailable("scanning place row", err)
		}
		out = append(out, *place)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Unavailable("iterating place rows", err)
	}
	return out, total, nil
}
