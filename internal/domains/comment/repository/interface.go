package repository

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/comment/model"
)

type Repository interface {
	// ========================================
	// COMMENTS
	// ========================================

	Create(ctx context.Context, comment *model.Comment) error

	// GetByID returns model.ErrCommentNotFound when missing
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// ListByBook returns every comment of the book, oldest first
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Comment, error)

	// Delete removes the comment and its likes; replies are kept
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByBook counts comments at any depth
	CountByBook(ctx context.Context, bookID uuid.UUID) (aggregate.CommentCount, error)

	// CountsByBooks counts comments for a page of books in one query; every id gets an entry
	CountsByBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.CommentCount, error)

	// ========================================
	// LIKES
	// ========================================

	// ToggleLike flips the like of identity on the comment and reports the new state
	ToggleLike(ctx context.Context, commentID uuid.UUID, identity string) (bool, error)

	CountLikes(ctx context.Context, commentID uuid.UUID) (int, error)

	// LikeCountsByBook returns like counts keyed by comment, comments without likes omitted
	LikeCountsByBook(ctx context.Context, bookID uuid.UUID) (map[uuid.UUID]int, error)

	// LikedComments reports which comments of the book carry a like from the
	// identity given for that comment
	LikedComments(ctx context.Context, bookID uuid.UUID, identities map[uuid.UUID]string) (map[uuid.UUID]bool, error)
}
