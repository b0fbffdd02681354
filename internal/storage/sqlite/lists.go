package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

const listColumns = `id, owner_id, name, description, is_private, is_public, created_at, updated_at`

// visiblePredicate is the effective-visibility rule in SQL: the explicit
// is_public flag wins when set, otherwise NOT is_private applies. Rows
// predating the is_public column carry NULL and fall through to the legacy
// flag.
const visiblePredicate = `COALESCE(l.is_public, NOT l.is_private)`

func scanList(row rowScanner) (*models.List, error) {
	var (
		list     models.List
		isPublic sql.NullBool
	)
	err := row.Scan(
		&list.ID,
		&list.OwnerID,
		&list.Name,
		&list.Description,
		&list.IsPrivate,
		&isPublic,
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if isPublic.Valid {
		v := isPublic.Bool
		list.IsPublic = &v
	}
	return &list, nil
}

func nullableBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// CreateList inserts a new list, generating ID and timestamps.
func (s *SQLiteStore) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	list.CreatedAt = now
	list.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lists (id, owner_id, name, description, is_private, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID,
		list.OwnerID,
		list.Name,
		list.Description,
		list.IsPrivate,
		nullableBool(list.IsPublic),
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", list.OwnerID)
		}
		return apperror.Unavailable("creating list", err)
	}
	return nil
}

// GetList retrieves a list by ID.
func (s *SQLiteStore) GetList(ctx context.Context, id string) (*models.List, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id)
	list, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("list", id)
	}
	if err != nil {
		return nil, apperror.Unavailable("fetching list", err)
	}
	return list, nil
}

// UpdateList persists name, description and visibility flags.
func (s *SQLiteStore) UpdateList(ctx context.Context, list *models.List) error {
	list.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx, `
		UPDATE lists SET name = ?, description = ?, is_private = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		list.Name,
		list.Description,
		list.IsPrivate,
		nullableBool(list.IsPublic),
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return apperror.Unavailable("updating list", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("updating list", err)
	}
	if affected == 0 {
		return apperror.NotFound("list", list.ID)
	}
	return nil
}

// DeleteList removes the list. Places and collaborator rows cascade.
func (s *SQLiteStore) DeleteList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return apperror.Unavailable("deleting list", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("deleting list", err)
	}
	if affected == 0 {
		return apperror.NotFound("list", id)
	}
	return nil
}

// ListsByOwner returns the owner's lists with place counts, newest first.
func (s *SQLiteStore) ListsByOwner(ctx context.Context, ownerID string, page storage.Page) ([]models.ListSummary, int, error) {
	return s.listPage(ctx, page,
		`l.owner_id = ?`, []any{ownerID},
	)
}

// PublicLists returns effectively-public lists, newest first.
func (s *SQLiteStore) PublicLists(ctx context.Context, page storage.Page) ([]models.ListSummary, int, error) {
	return s.listPage(ctx, page, visiblePredicate, nil)
}

// RecentLists returns effectively-public lists plus the viewer's own,
// newest first.
func (s *SQLiteStore) RecentLists(ctx context.Context, viewerID string, page storage.Page) ([]models.ListSummary, int, error) {
	return s.listPage(ctx, page,
		`(`+visiblePredicate+` OR l.owner_id = ?)`, []any{viewerID},
	)
}

// SearchLists matches name and description case-insensitively, restricted to
// what the viewer may see. An empty viewerID searches public lists only.
func (s *SQLiteStore) SearchLists(ctx context.Context, viewerID, query string, page storage.Page) ([]models.ListSummary, int, error) {
	like := "%" + strings.ToLower(query) + "%"
	where := `(LOWER(l.name) LIKE ? OR LOWER(l.description) LIKE ?) AND `
	args := []any{like, like}
	if viewerID == "" {
		where += visiblePredicate
	} else {
		where += `(` + visiblePredicate + ` OR l.owner_id = ? OR EXISTS (
			SELECT 1 FROM list_collaborators lc WHERE lc.list_id = l.id AND lc.user_id = ?
		))`
		args = append(args, viewerID, viewerID)
	}
	return s.listPage(ctx, page, where, args)
}

// listPage runs the shared summary query with a caller-supplied predicate.
func (s *SQLiteStore) listPage(ctx context.Context, page storage.Page, where string, args []any) ([]models.ListSummary, int, error) {
	page = clamp(page)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lists l WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, apperror.Unavailable("counting lists", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	queryArgs := append(append([]any{}, args...), page.Size, page.Offset())
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.owner_id, l.name, l.description, l.is_private, l.is_public,
			l.created_at, l.updated_at,
			(SELECT COUNT(*) FROM places p WHERE p.list_id = l.id) AS place_count
		FROM lists l
		WHERE `+where+`
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT ? OFFSET ?`,
		queryArgs...,
	)
	if err != nil {
		return nil, 0, apperror.Unavailable("listing lists", err)
	}
	defer rows.Close()

	var out []models.ListSummary
	for rows.Next() {
		var (
			summary  models.ListSummary
			isPublic sql.NullBool
		)
		if err := rows.Scan(
			&summary.ID, &summary.OwnerID, &summary.Name, &summary.Description,
			&summary.IsPrivate, &isPublic, &summary.CreatedAt, &summary.UpdatedAt,
			&summary.PlaceCount,
		); err != nil {
			return nil, 0, apperror.Unavailable("scanning list row", err)
		}
		if isPublic.Valid {
			v := isPublic.Bool
			summary.IsPublic = &v
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Unavailable("iterating list rows", err)
	}
	return out, total, nil
}
