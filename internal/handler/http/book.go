package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/bookvault/internal/service"
	"github.com/utafrali/bookvault/pkg/pagination"
	"github.com/utafrali/bookvault/pkg/validator"
)

// BookHandler handles HTTP requests for book catalog endpoints.
type BookHandler struct {
	service *service.BookService
	logger  *slog.Logger
}

// NewBookHandler creates a new book HTTP handler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateBookRequest is the JSON request body for creating a book.
// Price and discount are in minor currency units.
type CreateBookRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=500"`
	Author      string    `json:"author" validate:"required,min=1,max=200"`
	Price       int64     `json:"price" validate:"gte=0"`
	Discount    int64     `json:"discount" validate:"gte=0"`
	Pages       int       `json:"pages" validate:"gte=0"`
	PublishDate time.Time `json:"publish_date"`
	ImageLink   string    `json:"image_link" validate:"omitempty,url"`
}

// UpdateBookRequest is the JSON request body for updating a book.
type UpdateBookRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=500"`
	Author      *string    `json:"author" validate:"omitempty,min=1,max=200"`
	Price       *int64     `json:"price" validate:"omitempty,gte=0"`
	Discount    *int64     `json:"discount" validate:"omitempty,gte=0"`
	Pages       *int       `json:"pages" validate:"omitempty,gte=0"`
	PublishDate *time.Time `json:"publish_date"`
	ImageLink   *string    `json:"image_link" validate:"omitempty,url"`
}

// --- Handlers ---

// Create handles POST /api/v1/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	book, err := h.service.CreateBook(r.Context(), service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Discount:    req.Discount,
		Pages:       req.Pages,
		PublishDate: req.PublishDate,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: book})
}

// Get handles GET /api/v1/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: book})
}

// List handles GET /api/v1/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	books, total, err := h.service.ListBooks(r.Context(), params)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Data: pagination.NewResult(books, total, params),
	})
}

// Update handles PATCH /api/v1/books/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	id := chi.URLParam(r, "id")

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	book, err := h.service.UpdateBook(r.Context(), id, service.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Price:       req.Price,
		Discount:    req.Discount,
		Pages:       req.Pages,
		PublishDate: req.PublishDate,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: book})
}

// Delete handles DELETE /api/v1/books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"id": id, "status": "deleted"}})
}
