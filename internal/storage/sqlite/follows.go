package sqlite

import (
	"context"
	"time"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

// CreateFollow inserts the directed edge follower → followed. The primary
// key rejects duplicates and the CHECK constraint rejects self-follows, so
// both invariants hold even when two requests race past the service checks.
func (s *SQLiteStore) CreateFollow(ctx context.Context, followerID, followedID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_follows (follower_id, followed_id, created_at)
		VALUES (?, ?, ?)`,
		followerID, followedID, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("already following this user")
		}
		if isCheckViolation(err) {
			return apperror.InvalidOperation("cannot follow yourself")
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", followedID)
		}
		return apperror.Unavailable("creating follow", err)
	}
	return nil
}

// DeleteFollow removes the edge.
func (s *SQLiteStore) DeleteFollow(ctx context.Context, followerID, followedID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
	if err != nil {
		return apperror.Unavailable("deleting follow", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("deleting follow", err)
	}
	if affected == 0 {
		return apperror.NotFound("follow", followedID)
	}
	return nil
}

// IsFollowing reports whether the directed edge exists.
func (s *SQLiteStore) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_follows WHERE follower_id = ? AND followed_id = ?
		)`,
		followerID, followedID,
	).Scan(&exists)
	if err != nil {
		return false, apperror.Unavailable("checking follow", err)
	}
	return exists, nil
}

// Followers lists users following userID, newest edge first, each annotated
// with whether userID follows them back.
func (s *SQLiteStore) Followers(ctx context.Context, userID string, page storage.Page) ([]models.UserWithFollow, int, error) {
	return s.followPage(ctx, userID, page, `
		SELECT COUNT(*) FROM user_follows WHERE followed_id = ?`, `
		SELECT `+joinedUserColumns+`,
			EXISTS (
				SELECT 1 FROM user_follows back
				WHERE back.follower_id = ? AND back.followed_id = users.id
			) AS is_following
		FROM users
		JOIN user_follows uf ON uf.follower_id = users.id
		WHERE uf.followed_id = ?
		ORDER BY uf.created_at DESC
		LIMIT ? OFFSET ?`)
}

// Following lists users userID follows, newest edge first. The annotation is
// trivially true for every row.
func (s *SQLiteStore) Following(ctx context.Context, userID string, page storage.Page) ([]models.UserWithFollow, int, error) {
	return s.followPage(ctx, userID, page, `
		SELECT COUNT(*) FROM user_follows WHERE follower_id = ?`, `
		SELECT `+joinedUserColumns+`,
			EXISTS (
				SELECT 1 FROM user_follows uf2
				WHERE uf2.follower_id = ? AND uf2.followed_id = users.id
			) AS is_following
		FROM users
		JOIN user_follows uf ON uf.followed_id = users.id
		WHERE uf.follower_id = ?
		ORDER BY uf.created_at DESC
		LIMIT ? OFFSET ?`)
}

func (s *SQLiteStore) followPage(ctx context.Context, userID string, page storage.Page, countQuery, listQuery string) ([]models.UserWithFollow, int, error) {
	page = clamp(page)

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, apperror.Unavailable("counting follows", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := s.db.QueryContext(ctx, listQuery, userID, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, apperror.Unavailable("listing follows", err)
	}
	defer rows.Close()

	return collectUsersWithFollow(rows, total)
}
