package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/bookvault/internal/domain"
	"github.com/utafrali/bookvault/internal/service"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/middleware"
	"github.com/utafrali/bookvault/pkg/pagination"
)

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *mockBookRepo) List(ctx context.Context, params pagination.Params) ([]domain.Book, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Book), args.Int(1), args.Error(2)
}

func (m *mockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *mockBookRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// setupBookRouter mirrors the production book routes with a fake validator.
func setupBookRouter(handler *BookHandler, role string) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/books", func(r chi.Router) {
		r.Use(middleware.Auth(fakeTokenValidator(testUserID, role)))

		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Patch("/{id}", handler.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Delete("/{id}", handler.Delete)
		})
	})
	return r
}

func bookTestHandler(repo *mockBookRepo) *BookHandler {
	svc := service.NewBookService(repo, authTestLogger())
	return NewBookHandler(svc, authTestLogger())
}

func TestCreateBookHandler_Success(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Book")).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books/", jsonBody(t, map[string]any{
		"title":        "The Go Programming Language",
		"author":       "Alan A. A. Donovan",
		"price":        3999,
		"discount":     500,
		"pages":        380,
		"publish_date": time.Date(2015, 11, 16, 0, 0, 0, 0, time.UTC),
		"image_link":   "https://covers.example.com/gopl.jpg",
	}))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	var book domain.Book
	require.NoError(t, json.Unmarshal(resp.Data, &book))
	assert.NotEmpty(t, book.ID)
	repo.AssertExpectations(t)
}

func TestCreateBookHandler_MissingTitle(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books/", jsonBody(t, map[string]any{
		"author": "Somebody",
	}))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetBookHandler_NotFound(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	repo.On("GetByID", mock.Anything, "missing-id").Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/missing-id", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBooksHandler_Unauthenticated(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/books/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteBookHandler_ForbiddenForRegularUser(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/books/b-1", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteBookHandler_AllowedForAdmin(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleAdmin)

	repo.On("Delete", mock.Anything, "b-1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/books/b-1", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}

func TestUpdateBookHandler_PartialUpdate(t *testing.T) {
	repo := new(mockBookRepo)
	router := setupBookRouter(bookTestHandler(repo), domain.RoleUser)

	stored := &domain.Book{ID: "b-1", Title: "Old Title", Author: "Somebody", Price: 1000}
	repo.On("GetByID", mock.Anything, "b-1").Return(stored, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Book")).Return(nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/books/b-1", jsonBody(t, map[string]any{
		"title": "New Title",
	}))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)

	var book domain.Book
	require.NoError(t, json.Unmarshal(resp.Data, &book))
	assert.Equal(t, "New Title", book.Title)
	assert.Equal(t, "Somebody", book.Author)
}
