package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	votemodel "booknest/internal/domains/vote/model"
)

var ErrBookNotFound = errors.New("book not found")

// Book is a link submitted by a signed-in user
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	Description *string   `json:"description"`
	CoverURL    *string   `json:"cover_url"`
	Tags        []string  `json:"tags"`
	SubmittedBy string    `json:"submitted_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookFilter - Filter object for database query
type BookFilter struct {
	Tag    string
	Search string
	Offset int
	Limit  int
}

// BookResponse is a book with its freshly computed aggregates
type BookResponse struct {
	Book
	aggregate.BookAggregates
}

// BookDetailResponse adds the caller's own vote
type BookDetailResponse struct {
	BookResponse
	CurrentVote *votemodel.Kind `json:"current_vote"`
}
