package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/bookvault/internal/domain"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// BookRepository implements repository.BookRepository using PostgreSQL.
type BookRepository struct {
	db DB
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(db DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `id, title, author, price, discount, pages, publish_date, image_link, created_at, updated_at`

// Create inserts a new book into the database.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `
		INSERT INTO books (id, title, author, price, discount, pages, publish_date, image_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		b.ID,
		b.Title,
		b.Author,
		b.Price,
		b.Discount,
		b.Pages,
		b.PublishDate,
		b.ImageLink,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	return nil
}

// GetByID retrieves a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var b domain.Book
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Price,
		&b.Discount,
		&b.Pages,
		&b.PublishDate,
		&b.ImageLink,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}

	return &b, nil
}

// List returns a page of books ordered by creation time, plus the total count.
func (r *BookRepository) List(ctx context.Context, params pagination.Params) ([]domain.Book, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, params.PerPage, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.Author,
			&b.Price,
			&b.Discount,
			&b.Pages,
			&b.PublishDate,
			&b.ImageLink,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate book rows: %w", err)
	}

	if books == nil {
		books = []domain.Book{}
	}

	return books, total, nil
}

// Update modifies an existing book in the database.
func (r *BookRepository) Update(ctx context.Context, b *domain.Book) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE books
		SET title = $1, author = $2, price = $3, discount = $4, pages = $5,
		    publish_date = $6, image_link = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.db.Exec(ctx, query,
		b.Title,
		b.Author,
		b.Price,
		b.Discount,
		b.Pages,
		b.PublishDate,
		b.ImageLink,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("book", b.ID)
	}

	return nil
}

// Delete removes a book from the database by its ID.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM books WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("book", id)
	}

	return nil
}
