package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is a 1-5 star review. Each identity has at most one review per book;
// submitting again updates it.
type Review struct {
	ID         uuid.UUID `json:"id"`
	BookID     uuid.UUID `json:"book_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`

	// Content
	Rating  int     `json:"rating"` // 1-5
	Title   *string `json:"title"`
	Content string  `json:"content"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEdited reports whether the review was resubmitted after creation
func (r *Review) IsEdited() bool {
	return r.UpdatedAt.After(r.CreatedAt)
}
