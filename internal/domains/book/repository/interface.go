package repository

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/book/model"
)

// RepositoryInterface - data access for books
type RepositoryInterface interface {
	CreateBook(ctx context.Context, book *model.Book) error

	// GetBookByID returns model.ErrBookNotFound when missing
	GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// ListBooks returns a page of books, newest first, with the filtered total
	ListBooks(ctx context.Context, filter *model.BookFilter) ([]model.Book, int, error)

	// DeleteBook cascades to votes, comments, likes and reviews
	DeleteBook(ctx context.Context, id uuid.UUID) error

	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// GenerateUniqueSlug appends -2, -3, ... until baseSlug is free
	GenerateUniqueSlug(ctx context.Context, baseSlug string) (string, error)
}
