package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist/server/internal/apperror"
	"github.com/wanderlist/server/internal/models"
	"github.com/wanderlist/server/internal/storage"
)

const userColumns = `id, firebase_uid, email, username, display_name, profile_picture,
	profile_is_public, lists_are_public, allow_analytics, created_at, updated_at`

// joinedUserColumns qualifies every column with the users table. Queries that
// join users with an edge table need this: user_follows and
// list_collaborators carry their own created_at, and the bare column name is
// ambiguous to sqlite.
const joinedUserColumns = `users.id, users.firebase_uid, users.email, users.username,
	users.display_name, users.profile_picture, users.profile_is_public,
	users.lists_are_public, users.allow_analytics, users.created_at, users.updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user        models.User
		firebaseUID sql.NullString
		username    sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&firebaseUID,
		&user.Email,
		&username,
		&user.DisplayName,
		&user.ProfilePicture,
		&user.ProfileIsPublic,
		&user.ListsArePublic,
		&user.AllowAnalytics,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.FirebaseUID = firebaseUID.String
	user.Username = username.String
	return &user, nil
}

// nullable maps empty strings to NULL so the partial unique indexes on
// firebase_uid and username ignore unset values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateUser inserts a new user, generating ID and timestamps.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, firebase_uid, email, username, display_name, profile_picture,
			profile_is_public, lists_are_public, allow_analytics, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		nullable(user.FirebaseUID),
		user.Email,
		nullable(user.Username),
		user.DisplayName,
		user.ProfilePicture,
		user.ProfileIsPublic,
		user.ListsArePublic,
		user.AllowAnalytics,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("user with email %s already exists", user.Email))
		}
		return apperror.Unavailable("creating user", err)
	}
	return nil
}

// GetOrCreateUserByFirebase resolves a verified Firebase identity to a local
// user inside one transaction: UID lookup first, then email (relinking the
// stored UID when the provider reissued it), then create.
func (s *SQLiteStore) GetOrCreateUserByFirebase(ctx context.Context, firebaseUID, email, displayName, profilePicture string) (*models.User, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, apperror.Unavailable("resolving user", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE firebase_uid = ?`, firebaseUID)
	user, err := scanUser(row)
	if err == nil {
		return user, false, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return nil, false, apperror.Unavailable("resolving user by firebase uid", err)
	}

	row = tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err = scanUser(row)
	if err == nil {
		if user.FirebaseUID != firebaseUID {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET firebase_uid = ?, updated_at = ? WHERE id = ?`,
				firebaseUID, time.Now().Unix(), user.ID); err != nil {
				return nil, false, apperror.Unavailable("relinking firebase uid", err)
			}
			user.FirebaseUID = firebaseUID
		}
		return user, false, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return nil, false, apperror.Unavailable("resolving user by email", err)
	}

	now := time.Now().Unix()
	user = &models.User{
		ID:              uuid.New().String(),
		FirebaseUID:     firebaseUID,
		Email:           email,
		DisplayName:     displayName,
		ProfilePicture:  profilePicture,
		ProfileIsPublic: true,
		ListsArePublic:  true,
		AllowAnalytics:  true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, firebase_uid, email, username, display_name, profile_picture,
			profile_is_public, lists_are_public, allow_analytics, created_at, updated_at)
		VALUES (?, ?, ?, NULL, ?, ?, 1, 1, 1, ?, ?)`,
		user.ID, firebaseUID, email, displayName, profilePicture, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent first contact for the same
			// identity; the caller just retries the lookup.
			return nil, false, apperror.Conflict("user already exists")
		}
		return nil, false, apperror.Unavailable("creating user", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, apperror.Unavailable("creating user", err)
	}
	return user, true, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Unavailable("fetching user", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("user", email)
	}
	if err != nil {
		return nil, apperror.Unavailable("fetching user by email", err)
	}
	return user, nil
}

// GetUserByUsername matches the handle case-insensitively; the column's
// COLLATE NOCASE makes plain equality do that.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, apperror.NotFound("user", username)
	}
	if err != nil {
		return nil, apperror.Unavailable("fetching user by username", err)
	}
	return user, nil
}

// SetUsername assigns a unique handle. The pre-check gives a clean message;
// the COLLATE NOCASE unique index catches the race the pre-check cannot.
func (s *SQLiteStore) SetUsername(ctx context.Context, userID, username string) error {
	var takenBy string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ? AND id <> ?`, username, userID,
	).Scan(&takenBy)
	if err == nil {
		return apperror.Conflict(fmt.Sprintf("username %q is already taken", username))
	}
	if err != sql.ErrNoRows {
		return apperror.Unavailable("checking username", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
		username, time.Now().Unix(), userID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("username %q is already taken", username))
		}
		return apperror.Unavailable("setting username", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("setting username", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", userID)
	}
	return nil
}

// UpdateUserProfile changes display name and/or profile picture.
func (s *SQLiteStore) UpdateUserProfile(ctx context.Context, userID string, displayName, profilePicture *string) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().Unix()}
	if displayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *displayName)
	}
	if profilePicture != nil {
		sets = append(sets, "profile_picture = ?")
		args = append(args, *profilePicture)
	}
	args = append(args, userID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, apperror.Unavailable("updating profile", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperror.Unavailable("updating profile", err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("user", userID)
	}
	return s.GetUserByID(ctx, userID)
}

// UpdatePrivacySettings flips the provided privacy flags.
func (s *SQLiteStore) UpdatePrivacySettings(ctx context.Context, userID string, settings models.PrivacySettings) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().Unix()}
	if settings.ProfileIsPublic != nil {
		sets = append(sets, "profile_is_public = ?")
		args = append(args, *settings.ProfileIsPublic)
	}
	if settings.ListsArePublic != nil {
		sets = append(sets, "lists_are_public = ?")
		args = append(args, *settings.ListsArePublic)
	}
	if settings.AllowAnalytics != nil {
		sets = append(sets, "allow_analytics = ?")
		args = append(args, *settings.AllowAnalytics)
	}
	args = append(args, userID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, apperror.Unavailable("updating privacy settings", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apperror.Unavailable("updating privacy settings", err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("user", userID)
	}
	return s.GetUserByID(ctx, userID)
}

// DeleteUser removes the account. Lists, places, collaborator rows, follow
// edges and notifications disappear through the schema's cascades.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperror.Unavailable("deleting user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperror.Unavailable("deleting user", err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// SearchUsers finds users by email or username fragment, excluding the
// viewer, with the viewer's follow state attached.
func (s *SQLiteStore) SearchUsers(ctx context.Context, viewerID, query string, page storage.Page) ([]models.UserWithFollow, int, error) {
	page = clamp(page)
	like := "%" + strings.ToLower(query) + "%"

	var total int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users u
		WHERE (LOWER(u.email) LIKE ? OR LOWER(u.username) LIKE ?) AND u.id <> ?`,
		like, like, viewerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, apperror.Unavailable("searching users", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`,
			EXISTS (
				SELECT 1 FROM user_follows uf
				WHERE uf.follower_id = ? AND uf.followed_id = users.id
			) AS is_following
		FROM users
		WHERE (LOWER(email) LIKE ? OR LOWER(username) LIKE ?) AND id <> ?
		ORDER BY username ASC NULLS LAST, display_name ASC, email ASC
		LIMIT ? OFFSET ?`,
		viewerID, like, like, viewerID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, apperror.Unavailable("searching users", err)
	}
	defer rows.Close()

	return collectUsersWithFollow(rows, total)
}

// collectUsersWithFollow scans rows shaped as userColumns + is_following.
func collectUsersWithFollow(rows *sql.Rows, total int) ([]models.UserWithFollow, int, error) {
	var out []models.UserWithFollow
	for rows.Next() {
		var (
			u           models.User
			firebaseUID sql.NullString
			username    sql.NullString
			following   bool
		)
		if err := rows.Scan(
			&u.ID, &firebaseUID, &u.Email, &username, &u.DisplayName, &u.ProfilePicture,
			&u.ProfileIsPublic, &u.ListsArePublic, &u.AllowAnalytics, &u.CreatedAt, &u.UpdatedAt,
			&following,
		); err != nil {
			return nil, 0, apperror.Unavailable("scanning user row", err)
		}
		u.FirebaseUID = firebaseUID.String
		u.Username = username.String
		out = append(out, models.UserWithFollow{User: u, IsFollowing: following})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.Unavailable("iterating user rows", err)
	}
	return out, total, nil
}
