package repository

import (
	"context"
	"time"

	"github.com/utafrali/bookvault/internal/domain"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByResetTokenHash retrieves the user holding the given outstanding
	// reset-token hash. Expiry is checked by the caller.
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// SetResetToken writes only the reset-token bookkeeping columns for the
	// given user, leaving credentials untouched.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// ClearResetToken removes any outstanding reset token from the user.
	ClearResetToken(ctx context.Context, userID string) error

	// List returns a page of users along with the total count.
	List(ctx context.Context, params pagination.Params) ([]domain.User, int, error)

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error
}

// BookRepository defines the interface for book persistence operations.
type BookRepository interface {
	// Create inserts a new book into the store.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Book, error)

	// List returns a page of books along with the total count.
	List(ctx context.Context, params pagination.Params) ([]domain.Book, int, error)

	// Update modifies an existing book in the store.
	Update(ctx context.Context, book *domain.Book) error

	// Delete removes a book from the store by its identifier.
	Delete(ctx context.Context, id string) error
}
