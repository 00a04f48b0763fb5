package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Deba1597/backendProject/internal/database"
	"github.com/Deba1597/backendProject/internal/domain"
	apperrors "github.com/Deba1597/backendProject/internal/errors"
)

// DB is the subset of pgxpool.Pool the repository needs. It is satisfied by
// both *pgxpool.Pool and the pgxmock pool used in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	ctx, end := database.TraceQuery(ctx, "CreateUser", query)
	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.FullName,
		u.AvatarURL,
		u.CoverImageURL,
		u.PasswordHash,
		u.RefreshToken,
		u.CreatedAt,
		u.UpdatedAt,
	)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "username or email", u.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return r.scanUser(ctx, "GetUserByID", query, id)
}

// GetByIdentifier retrieves a user whose username or email matches the
// identifier. A single query covers both so login needs one round trip.
func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 OR email = $1`

	return r.scanUser(ctx, "GetUserByIdentifier", query, identifier)
}

// ExistsByUsernameOrEmail reports whether a user with the given username or
// email already exists.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)`

	ctx, end := database.TraceQuery(ctx, "UserExists", query)
	var exists bool
	err := r.db.QueryRow(ctx, query, username, email).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check user existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile modifies the user's full name and email.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET full_name = $1, email = $2, updated_at = $3
		WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateUserProfile", query)
	ct, err := r.db.Exec(ctx, query, u.FullName, u.Email, u.UpdatedAt, u.ID)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", u.Email)
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// UpdateAvatar sets the user's avatar URL.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.updateColumn(ctx, "UpdateUserAvatar", "avatar_url", id, avatarURL, true)
}

// UpdateCoverImage sets the user's cover image URL.
func (r *UserRepository) UpdateCoverImage(ctx context.Context, id, coverImageURL string) error {
	return r.updateColumn(ctx, "UpdateUserCoverImage", "cover_image_url", id, coverImageURL, true)
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateColumn(ctx, "UpdateUserPassword", "password_hash", id, passwordHash, true)
}

// UpdateRefreshToken overwrites the single stored renewal credential.
// updated_at is left alone so credential rotation does not masquerade as a
// profile change.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id, token string) error {
	return r.updateColumn(ctx, "UpdateRefreshToken", "refresh_token", id, token, false)
}

// ClearRefreshToken removes the stored renewal credential.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, id string) error {
	return r.updateColumn(ctx, "ClearRefreshToken", "refresh_token", id, "", false)
}

// updateColumn writes a single column of the users row.
func (r *UserRepository) updateColumn(ctx context.Context, operation, column, id, value string, touchUpdatedAt bool) error {
	var query string
	var args []any
	if touchUpdatedAt {
		query = `UPDATE users SET ` + column + ` = $1, updated_at = $2 WHERE id = $3`
		args = []any{value, time.Now().UTC(), id}
	} else {
		query = `UPDATE users SET ` + column + ` = $1 WHERE id = $2`
		args = []any{value, id}
	}

	ctx, end := database.TraceQuery(ctx, operation, query)
	ct, err := r.db.Exec(ctx, query, args...)
	end(err)
	if err != nil {
		return fmt.Errorf("update user %s: %w", column, err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, operation, query string, args ...any) (*domain.User, error) {
	ctx, end := database.TraceQuery(ctx, operation, query)

	var u domain.User
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.AvatarURL,
		&u.CoverImageURL,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
