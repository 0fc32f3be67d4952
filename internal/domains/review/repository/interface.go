package repository

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// Upsert inserts the review or updates the identity's existing one for the book.
	// It fills ID and timestamps on review and reports whether a row was created.
	Upsert(ctx context.Context, review *model.Review) (bool, error)

	// GetByBookAndIdentity returns model.ErrReviewNotFound when missing
	GetByBookAndIdentity(ctx context.Context, bookID uuid.UUID, identity string) (*model.Review, error)

	// DeleteByBookAndIdentity returns model.ErrReviewNotFound when nothing was deleted
	DeleteByBookAndIdentity(ctx context.Context, bookID uuid.UUID, identity string) error

	// ListByBook lists a page of reviews, newest first, with the total count
	ListByBook(ctx context.Context, bookID uuid.UUID, page, limit int) ([]*model.Review, int, error)

	// GetRatingBreakdown returns review counts keyed by star rating
	GetRatingBreakdown(ctx context.Context, bookID uuid.UUID) (map[int]int, error)

	// RatingSummary aggregates the breakdown into average, total and buckets
	RatingSummary(ctx context.Context, bookID uuid.UUID) (aggregate.RatingSummary, error)

	// RatingSummaries builds summaries for a page of books in one query; every id gets an entry
	RatingSummaries(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.RatingSummary, error)
}
