package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/bookvault/internal/domain"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

func newBookTestFixture(t *testing.T) (*BookRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewBookRepository(mock)
	return repo, mock
}

func sampleBook() *domain.Book {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Book{
		ID:          "b-1234",
		Title:       "The Go Programming Language",
		Author:      "Alan A. A. Donovan",
		Price:       3999,
		Discount:    500,
		Pages:       380,
		PublishDate: time.Date(2015, 11, 16, 0, 0, 0, 0, time.UTC),
		ImageLink:   "https://covers.example.com/gopl.jpg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func bookRow(b *domain.Book) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "author", "price", "discount", "pages",
		"publish_date", "image_link", "created_at", "updated_at",
	}).AddRow(
		b.ID, b.Title, b.Author, b.Price, b.Discount, b.Pages,
		b.PublishDate, b.ImageLink, b.CreatedAt, b.UpdatedAt,
	)
}

func TestBookRepository_Create_Success(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("INSERT INTO books").
		WithArgs(
			b.ID, b.Title, b.Author, b.Price, b.Discount, b.Pages,
			b.PublishDate, b.ImageLink, b.CreatedAt, b.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_GetByID_Success(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectQuery("SELECT .+ FROM books WHERE id =").
		WithArgs(b.ID).
		WillReturnRows(bookRow(b))

	got, err := repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.Title, got.Title)
	assert.Equal(t, b.Price, got.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM books WHERE id =").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_List_Success(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM books ORDER BY created_at").
		WithArgs(20, 0).
		WillReturnRows(bookRow(b))

	params := pagination.Params{Page: 1, PerPage: 20, Offset: 0}
	books, total, err := repo.List(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, b.Title, books[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Update_Success(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("UPDATE books").
		WithArgs(
			b.Title, b.Author, b.Price, b.Discount, b.Pages,
			b.PublishDate, b.ImageLink,
			pgxmock.AnyArg(), // updated_at
			b.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), b)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Update_NotFound(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	b := sampleBook()

	mock.ExpectExec("UPDATE books").
		WithArgs(
			b.Title, b.Author, b.Price, b.Discount, b.Pages,
			b.PublishDate, b.ImageLink,
			pgxmock.AnyArg(),
			b.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Delete_Success(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM books WHERE id =").
		WithArgs("b-1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "b-1234")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newBookTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM books WHERE id =").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
