package service

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/identity"
	"booknest/internal/domains/vote/model"
)

type ServiceInterface interface {
	// CastVote records, replaces or toggles off the caller's vote and returns the fresh tally
	CastVote(ctx context.Context, bookID uuid.UUID, voter identity.Token, req model.CastVoteRequest) (*model.VoteResponse, error)

	// GetTally returns the book's vote tally
	GetTally(ctx context.Context, bookID uuid.UUID) (*aggregate.VoteTally, error)
}

// BookChecker reports whether a book exists
type BookChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
