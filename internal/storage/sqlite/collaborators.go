package sqlite

import (
	"context"
	"time"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
)

// AddCollaborator inserts the (list, user) edge. The primary key rejects
// duplicates.
func (s *SQLiteStore) AddCollaborator(ctx context.Context, listID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO list_collaborators (list_id, user_id, created_at)
		VALUES (?, ?, ?)`,
		listID, userID, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user is already a collaborator on this list")
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("list or user", listID)
		}
		return apperror.Unavailable("adding collaborator", err)
	}
	return nil
}

// RemoveCollaborator deletes the edge.
func (s *SQLiteStore) RemoveCollaborator(ctx context.Context, listID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM list_collaborators WHERE list_id = ? AND user_id = ?`,
		listID, userID)
	if err != nil {
		return apperror.Unavailable("removing collaborator", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("removing collaborator", err)
	}
	if affected == 0 {
		return apperror.NotFound("collaborator", userID)
	}
	return nil
}

// IsCollaborator reports whether userID is a collaborator on listID.
func (s *SQLiteStore) IsCollaborator(ctx context.Context, listID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM list_collaborators WHERE list_id = ? AND user_id = ?
		)`,
		listID, userID,
	).Scan(&exists)
	if err != nil {
		return false, apperror.Unavailable("checking collaborator", err)
	}
	return exists, nil
}

// Collaborators lists the users collaborating on a list, oldest edge first.
func (s *SQLiteStore) Collaborators(ctx context.Context, listID string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+joinedUserColumns+` FROM users
		JOIN list_collaborators lc ON lc.user_id = users.id
		WHERE lc.list_id = ?
		ORDER BY lc.created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, apperror.Unavailable("listing collaborators", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperror.Unavailable("scanning collaborator row", err)
		}
		out = append(out, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable("iterating collaborator rows", err)
	}
	return out, nil
}

// CollaboratorEmails returns just the email column, for list detail views.
func (s *SQLiteStore) CollaboratorEmails(ctx context.Context, listID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.email FROM users u
		JOIN list_collaborators lc ON lc.user_id = u.id
		WHERE lc.list_id = ?
		ORDER BY lc.created_at ASC`,
		listID,
	)
	if err != nil {
		return nil, apperror.Unavailable("listing collaborator emails", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, apperror.Unavailable("scanning collaborator email", err)
		}
		out = append(out, email)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.Unavailable("iterating collaborator emails", err)
	}
	return out, nil
}
