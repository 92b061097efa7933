package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/bookvault/internal/domain"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// --- Mock Book Repository ---

type mockBookRepository struct {
	mock.Mock
}

func (m *mockBookRepository) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockBookRepository) List(ctx context.Context, params pagination.Params) ([]domain.Book, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Book), args.Int(1), args.Error(2)
}

func (m *mockBookRepository) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestBookService(repo *mockBookRepository) *BookService {
	return NewBookService(repo, newTestLogger())
}

// --- Tests ---

func TestCreateBook_Success(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Book")).Return(nil)

	book, err := svc.CreateBook(ctx, CreateBookInput{
		Title:       "The Go Programming Language",
		Author:      "Alan A. A. Donovan",
		Price:       3999,
		Discount:    500,
		Pages:       380,
		PublishDate: time.Date(2015, 11, 16, 0, 0, 0, 0, time.UTC),
		ImageLink:   "https://covers.example.com/gopl.jpg",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "The Go Programming Language", book.Title)
	assert.NotZero(t, book.CreatedAt)
	repo.AssertExpectations(t)
}

func TestCreateBook_MissingTitle(t *testing.T) {
	svc := newTestBookService(new(mockBookRepository))

	book, err := svc.CreateBook(context.Background(), CreateBookInput{Author: "Somebody"})

	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCreateBook_DiscountExceedsPrice(t *testing.T) {
	svc := newTestBookService(new(mockBookRepository))

	book, err := svc.CreateBook(context.Background(), CreateBookInput{
		Title:    "Cheap Book",
		Author:   "Somebody",
		Price:    100,
		Discount: 200,
	})

	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestGetBook_NotFound(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	book, err := svc.GetBook(ctx, "missing")
	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateBook_PartialUpdate(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	stored := &domain.Book{
		ID:     "b-1",
		Title:  "Old Title",
		Author: "Somebody",
		Price:  1000,
	}

	repo.On("GetByID", ctx, "b-1").Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Book")).Return(nil)

	newTitle := "New Title"
	book, err := svc.UpdateBook(ctx, "b-1", UpdateBookInput{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, "Somebody", book.Author)
	repo.AssertExpectations(t)
}

func TestUpdateBook_EmptyTitleRejected(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "b-1").Return(&domain.Book{ID: "b-1", Title: "Old", Author: "A"}, nil)

	empty := ""
	book, err := svc.UpdateBook(ctx, "b-1", UpdateBookInput{Title: &empty})

	assert.Nil(t, book)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteBook_Success(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "b-1").Return(nil)

	err := svc.DeleteBook(ctx, "b-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListBooks_Success(t *testing.T) {
	repo := new(mockBookRepository)
	svc := newTestBookService(repo)
	ctx := context.Background()

	params := pagination.Params{Page: 1, PerPage: 20, Offset: 0}
	repo.On("List", ctx, params).Return([]domain.Book{{ID: "b-1"}}, 1, nil)

	books, total, err := svc.ListBooks(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, books, 1)
}
