package repository

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/vote/model"
)

type Repository interface {
	// ApplyVote runs the vote state machine for (bookID, identity) atomically and
	// returns the vote left in place, nil when it was toggled off
	ApplyVote(ctx context.Context, bookID uuid.UUID, identity string, kind model.Kind) (*model.Kind, error)

	// CurrentVote returns the identity's vote on the book, nil when none
	CurrentVote(ctx context.Context, bookID uuid.UUID, identity string) (*model.Kind, error)

	// Tally counts the book's votes
	Tally(ctx context.Context, bookID uuid.UUID) (aggregate.VoteTally, error)

	// Tallies counts votes for a page of books in one query; every id gets an entry
	Tallies(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.VoteTally, error)
}
