package aggregate

import "github.com/google/uuid"

// VoteTally is the per-book vote aggregate
type VoteTally struct {
	BookID    uuid.UUID `json:"book_id"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Score     int       `json:"score"`
}

// NewVoteTally fills in the derived score
func NewVoteTally(bookID uuid.UUID, upvotes, downvotes int) VoteTally {
	return VoteTally{
		BookID:    bookID,
		Upvotes:   upvotes,
		Downvotes: downvotes,
		Score:     upvotes - downvotes,
	}
}

// CommentCount counts every comment row of a book, replies at any depth included
type CommentCount struct {
	BookID uuid.UUID `json:"book_id"`
	Total  int       `json:"total"`
}

// BookAggregates bundles the three views embedded in book responses
type BookAggregates struct {
	Votes    VoteTally     `json:"votes"`
	Rating   RatingSummary `json:"rating"`
	Comments CommentCount  `json:"comments"`
}
