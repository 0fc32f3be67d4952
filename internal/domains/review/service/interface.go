package service

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/review/model"
	"booknest/internal/shared"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// UpsertReview creates the author's review of the book or updates the existing one
	UpsertReview(ctx context.Context, bookID uuid.UUID, author *shared.SessionUser, req model.UpsertReviewRequest) (*model.ReviewResponse, error)

	// DeleteReview removes the author's review of the book
	DeleteReview(ctx context.Context, bookID uuid.UUID, author *shared.SessionUser) (*model.ReviewResponse, error)

	// ListReviews lists a page of reviews with the rating summary, plus the viewer's own review when signed in
	ListReviews(ctx context.Context, bookID uuid.UUID, viewer *shared.SessionUser, req model.ListReviewsRequest) (*model.ListReviewsResponse, error)

	// GetRatingSummary returns average, total and star buckets
	GetRatingSummary(ctx context.Context, bookID uuid.UUID) (*aggregate.RatingSummary, error)
}

// BookChecker reports whether a book exists
type BookChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
