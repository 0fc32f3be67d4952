package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/identity"
	"booknest/internal/domains/vote/model"
	"booknest/internal/domains/vote/repository"
	"booknest/internal/shared"
	"booknest/pkg/logger"
)

type voteService struct {
	voteRepo repository.Repository
	books    BookChecker
}

func NewVoteService(voteRepo repository.Repository, books BookChecker) ServiceInterface {
	return &voteService{
		voteRepo: voteRepo,
		books:    books,
	}
}

func (s *voteService) CastVote(
	ctx context.Context,
	bookID uuid.UUID,
	voter identity.Token,
	req model.CastVoteRequest,
) (*model.VoteResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	// Step 2: Target must exist
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, shared.NewUnknownTargetError("book")
	}

	// Step 3: Apply state machine
	current, err := s.voteRepo.ApplyVote(ctx, bookID, voter.Value, req.Kind)
	if err != nil {
		return nil, err
	}

	// Step 4: Recompute tally
	tally, err := s.voteRepo.Tally(ctx, bookID)
	if err != nil {
		return nil, err
	}

	logger.Info("vote applied", map[string]interface{}{
		"book_id":   bookID.String(),
		"submitted": string(req.Kind),
		"anonymous": voter.Anonymous,
		"removed":   current == nil,
	})

	return &model.VoteResponse{
		BookID: bookID,
		Vote:   current,
		Tally:  tally,
	}, nil
}

func (s *voteService) GetTally(ctx context.Context, bookID uuid.UUID) (*aggregate.VoteTally, error) {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, shared.NewNotFoundError("book")
	}

	tally, err := s.voteRepo.Tally(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &tally, nil
}
