package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"booknest/internal/domains/aggregate"
	"booknest/internal/shared/response"
)

const (
	MinContentLength = 10
	MaxContentLength = 2000
	MaxTitleLength   = 200
)

// =====================================================
// REQUEST DTOs
// =====================================================

// UpsertReviewRequest - POST /books/:id/reviews
type UpsertReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Title   *string `json:"title"`
	Content string  `json:"content" binding:"required"`
}

func (r UpsertReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.Required.Error("rating is required"),
			validation.Min(aggregate.MinRating).Error("rating must be between 1 and 5"),
			validation.Max(aggregate.MaxRating).Error("rating must be between 1 and 5"),
		),
		validation.Field(&r.Title,
			validation.NilOrNotEmpty.Error("title must not be blank"),
			validation.RuneLength(1, MaxTitleLength),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(MinContentLength, MaxContentLength).Error("content must be 10-2000 characters"),
		),
	)
}

// ListReviewsRequest - GET /books/:id/reviews
type ListReviewsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListReviewsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ReviewResponse is returned after a write
type ReviewResponse struct {
	Review  *Review                 `json:"review,omitempty"`
	Created bool                    `json:"created"`
	Summary aggregate.RatingSummary `json:"summary"`
}

// ListReviewsResponse - GET /books/:id/reviews
type ListReviewsResponse struct {
	Reviews  []*Review               `json:"reviews"`
	MyReview *Review                 `json:"my_review,omitempty"`
	Summary  aggregate.RatingSummary `json:"summary"`
	Meta     *response.Meta          `json:"meta"`
}
