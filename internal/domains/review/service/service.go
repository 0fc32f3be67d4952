package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/review/model"
	"booknest/internal/domains/review/repository"
	"booknest/internal/shared"
	"booknest/internal/shared/response"
	"booknest/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	books      BookChecker
}

func NewReviewService(reviewRepo repository.ReviewRepository, books BookChecker) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		books:      books,
	}
}

// checkBook maps a missing book to the given error
func (s *reviewService) checkBook(ctx context.Context, bookID uuid.UUID, missing error) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return missing
	}
	return nil
}

// =====================================================
// UPSERT REVIEW
// =====================================================

func (s *reviewService) UpsertReview(
	ctx context.Context,
	bookID uuid.UUID,
	author *shared.SessionUser,
	req model.UpsertReviewRequest,
) (*model.ReviewResponse, error) {
	if author == nil || author.AccountID == "" {
		return nil, shared.NewUnauthorizedError("Sign in to review")
	}

	// Step 1: Validate request
	req.Content = strings.TrimSpace(req.Content)
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	// Step 2: Book must exist
	if err := s.checkBook(ctx, bookID, shared.NewUnknownTargetError("book")); err != nil {
		return nil, err
	}

	// Step 3: Save
	review := &model.Review{
		BookID:     bookID,
		AuthorID:   author.AccountID,
		AuthorName: author.DisplayName(),
		Rating:     req.Rating,
		Title:      req.Title,
		Content:    req.Content,
	}
	created, err := s.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, err
	}

	// Step 4: Fresh summary
	summary, err := s.reviewRepo.RatingSummary(ctx, bookID)
	if err != nil {
		return nil, err
	}

	logger.Info("review saved", map[string]interface{}{
		"book_id": bookID.String(),
		"rating":  review.Rating,
		"created": created,
	})

	return &model.ReviewResponse{
		Review:  review,
		Created: created,
		Summary: summary,
	}, nil
}

// =====================================================
// DELETE REVIEW
// =====================================================

func (s *reviewService) DeleteReview(
	ctx context.Context,
	bookID uuid.UUID,
	author *shared.SessionUser,
) (*model.ReviewResponse, error) {
	if author == nil || author.AccountID == "" {
		return nil, shared.NewUnauthorizedError("Sign in to delete your review")
	}

	if err := s.reviewRepo.DeleteByBookAndIdentity(ctx, bookID, author.AccountID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, shared.NewNotFoundError("review")
		}
		return nil, err
	}

	summary, err := s.reviewRepo.RatingSummary(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &model.ReviewResponse{Summary: summary}, nil
}

// =====================================================
// READS
// =====================================================

func (s *reviewService) ListReviews(
	ctx context.Context,
	bookID uuid.UUID,
	viewer *shared.SessionUser,
	req model.ListReviewsRequest,
) (*model.ListReviewsResponse, error) {
	req.Normalize()

	if err := s.checkBook(ctx, bookID, shared.NewNotFoundError("book")); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByBook(ctx, bookID, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.RatingSummary(ctx, bookID)
	if err != nil {
		return nil, err
	}

	resp := &model.ListReviewsResponse{
		Reviews: reviews,
		Summary: summary,
		Meta:    response.NewMeta(req.Page, req.Limit, total),
	}

	// The viewer's own review may sit on another page
	if viewer != nil && viewer.AccountID != "" {
		mine, err := s.reviewRepo.GetByBookAndIdentity(ctx, bookID, viewer.AccountID)
		if err != nil && !errors.Is(err, model.ErrReviewNotFound) {
			return nil, err
		}
		resp.MyReview = mine
	}

	return resp, nil
}

func (s *reviewService) GetRatingSummary(ctx context.Context, bookID uuid.UUID) (*aggregate.RatingSummary, error) {
	if err := s.checkBook(ctx, bookID, shared.NewNotFoundError("book")); err != nil {
		return nil, err
	}

	summary, err := s.reviewRepo.RatingSummary(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
