package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/bookvault/internal/domain"
	"github.com/utafrali/bookvault/internal/repository"
	apperrors "github.com/utafrali/bookvault/pkg/errors"
	"github.com/utafrali/bookvault/pkg/pagination"
)

// BookService implements the business logic for book catalog operations.
type BookService struct {
	bookRepo repository.BookRepository
	logger   *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(bookRepo repository.BookRepository, logger *slog.Logger) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		logger:   logger,
	}
}

// CreateBookInput holds the parameters for creating a book.
type CreateBookInput struct {
	Title       string
	Author      string
	Price       int64
	Discount    int64
	Pages       int
	PublishDate time.Time
	ImageLink   string
}

// UpdateBookInput holds the parameters for updating a book. Nil fields are
// left unchanged.
type UpdateBookInput struct {
	Title       *string
	Author      *string
	Price       *int64
	Discount    *int64
	Pages       *int
	PublishDate *time.Time
	ImageLink   *string
}

// CreateBook adds a new book to the catalog.
func (s *BookService) CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Author == "" {
		return nil, apperrors.InvalidInput("author is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Discount < 0 || input.Discount > input.Price {
		return nil, apperrors.InvalidInput("discount must be between zero and the price")
	}
	if input.Pages < 0 {
		return nil, apperrors.InvalidInput("pages must not be negative")
	}

	now := time.Now().UTC()
	book := &domain.Book{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Author:      input.Author,
		Price:       input.Price,
		Discount:    input.Discount,
		Pages:       input.Pages,
		PublishDate: input.PublishDate,
		ImageLink:   input.ImageLink,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.InfoContext(ctx, "book created",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)

	return book, nil
}

// GetBook retrieves a book by its ID.
func (s *BookService) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns a page of books along with the total count.
func (s *BookService) ListBooks(ctx context.Context, params pagination.Params) ([]domain.Book, int, error) {
	books, total, err := s.bookRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

// UpdateBook applies the provided fields to an existing book.
func (s *BookService) UpdateBook(ctx context.Context, id string, input UpdateBookInput) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book for update: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		book.Title = *input.Title
	}
	if input.Author != nil {
		if *input.Author == "" {
			return nil, apperrors.InvalidInput("author must not be empty")
		}
		book.Author = *input.Author
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		book.Price = *input.Price
	}
	if input.Discount != nil {
		if *input.Discount < 0 || *input.Discount > book.Price {
			return nil, apperrors.InvalidInput("discount must be between zero and the price")
		}
		book.Discount = *input.Discount
	}
	if input.Pages != nil {
		if *input.Pages < 0 {
			return nil, apperrors.InvalidInput("pages must not be negative")
		}
		book.Pages = *input.Pages
	}
	if input.PublishDate != nil {
		book.PublishDate = *input.PublishDate
	}
	if input.ImageLink != nil {
		book.ImageLink = *input.ImageLink
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.InfoContext(ctx, "book updated",
		slog.String("book_id", book.ID),
	)

	return book, nil
}

// DeleteBook removes a book from the catalog.
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.InfoContext(ctx, "book deleted",
		slog.String("book_id", id),
	)

	return nil
}
