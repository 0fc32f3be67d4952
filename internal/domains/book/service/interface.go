package service

import (
	"context"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/book/model"
	"booknest/internal/domains/identity"
	votemodel "booknest/internal/domains/vote/model"
	"booknest/internal/infrastructure/preview"
	"booknest/internal/shared"
	"booknest/internal/shared/response"
)

// ServiceInterface - book business logic
type ServiceInterface interface {
	ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookResponse, *response.Meta, error)
	GetBookDetail(ctx context.Context, id uuid.UUID, viewer identity.Token) (*model.BookDetailResponse, error)
	CreateBook(ctx context.Context, submitter *shared.SessionUser, req model.CreateBookRequest) (*model.BookResponse, error)
	DeleteBook(ctx context.Context, id uuid.UUID, requester *shared.SessionUser) error
	PreviewLink(ctx context.Context, req model.PreviewRequest) (*preview.Metadata, error)
}

// =====================================================
// AGGREGATE SOURCES
// =====================================================

// VoteReader is satisfied by the vote repository
type VoteReader interface {
	Tally(ctx context.Context, bookID uuid.UUID) (aggregate.VoteTally, error)
	CurrentVote(ctx context.Context, bookID uuid.UUID, identity string) (*votemodel.Kind, error)
	Tallies(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.VoteTally, error)
}

// RatingReader is satisfied by the review repository
type RatingReader interface {
	RatingSummary(ctx context.Context, bookID uuid.UUID) (aggregate.RatingSummary, error)
	RatingSummaries(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.RatingSummary, error)
}

// CommentCounter is satisfied by the comment repository
type CommentCounter interface {
	CountByBook(ctx context.Context, bookID uuid.UUID) (aggregate.CommentCount, error)
	CountsByBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.CommentCount, error)
}

// LinkPreviewer is satisfied by *preview.Fetcher
type LinkPreviewer interface {
	Fetch(ctx context.Context, rawURL string) (*preview.Metadata, error)
}
