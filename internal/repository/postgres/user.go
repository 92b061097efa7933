package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/bookvault/internal/domain"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, role, password_hash, password_changed_at, password_reset_token_hash, password_reset_expires_at, created_at, updated_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, role, password_hash, password_changed_at, password_reset_token_hash, password_reset_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.Role,
		u.PasswordHash,
		u.PasswordChangedAt,
		u.PasswordResetTokenHash,
		u.PasswordResetExpiresAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("email %q is already registered", u.Email))
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// GetByResetTokenHash retrieves the user holding the given reset-token hash.
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE password_reset_token_hash = $1`
	return r.scanUser(ctx, query, tokenHash)
}

// Update modifies an existing user in the database.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET name = $1, email = $2, role = $3, password_hash = $4,
		    password_changed_at = $5, password_reset_token_hash = $6, password_reset_expires_at = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		u.Name,
		u.Email,
		u.Role,
		u.PasswordHash,
		u.PasswordChangedAt,
		u.PasswordResetTokenHash,
		u.PasswordResetExpiresAt,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.InvalidInput(fmt.Sprintf("email %q is already registered", u.Email))
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// SetResetToken writes only the reset-token columns, leaving credentials and
// profile fields untouched. This is the bookkeeping path that bypasses full
// user validation.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token_hash = $1, password_reset_expires_at = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.db.Exec(ctx, query, tokenHash, expiresAt, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ClearResetToken removes any outstanding reset token from the user.
func (r *UserRepository) ClearResetToken(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET password_reset_token_hash = NULL, password_reset_expires_at = NULL, updated_at = $1
		WHERE id = $2`

	ct, err := r.db.Exec(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// List returns a page of users ordered by creation time, plus the total count.
func (r *UserRepository) List(ctx context.Context, params pagination.Params) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user rows: %w", err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, total, nil
}

// Delete removes a user from the database by their ID.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}

	return nil
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User
	if err := scanUserRow(r.db.QueryRow(ctx, query, args...), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// scanUserRow scans one user row from either a pgx.Row or pgx.Rows.
func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.PasswordChangedAt,
		&u.PasswordResetTokenHash,
		&u.PasswordResetExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
