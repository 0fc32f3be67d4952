package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind is the direction of a book vote
type Kind string

const (
	KindUpvote   Kind = "upvote"
	KindDownvote Kind = "downvote"
)

func (k Kind) Valid() bool {
	return k == KindUpvote || k == KindDownvote
}

// Opposite returns the other direction
func (k Kind) Opposite() Kind {
	if k == KindUpvote {
		return KindDownvote
	}
	return KindUpvote
}

// Vote is one identity's vote on one book. At most one row exists per (book, identity).
type Vote struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book_id"`
	Identity  string    `json:"-"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
