package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/book/model"
	"booknest/internal/domains/book/repository"
	"booknest/internal/domains/identity"
	"booknest/internal/infrastructure/preview"
	"booknest/internal/shared"
	"booknest/internal/shared/response"
	"booknest/internal/shared/utils"
	"booknest/pkg/logger"
)

type BookService struct {
	repo     repository.RepositoryInterface
	votes    VoteReader
	ratings  RatingReader
	comments CommentCounter
	previews LinkPreviewer
}

func NewService(
	repo repository.RepositoryInterface,
	votes VoteReader,
	ratings RatingReader,
	comments CommentCounter,
	previews LinkPreviewer,
) ServiceInterface {
	return &BookService{
		repo:     repo,
		votes:    votes,
		ratings:  ratings,
		comments: comments,
		previews: previews,
	}
}

// aggregatesFor recomputes the three derived views from raw rows
func (s *BookService) aggregatesFor(ctx context.Context, bookID uuid.UUID) (aggregate.BookAggregates, error) {
	tally, err := s.votes.Tally(ctx, bookID)
	if err != nil {
		return aggregate.BookAggregates{}, err
	}

	rating, err := s.ratings.RatingSummary(ctx, bookID)
	if err != nil {
		return aggregate.BookAggregates{}, err
	}

	count, err := s.comments.CountByBook(ctx, bookID)
	if err != nil {
		return aggregate.BookAggregates{}, err
	}

	return aggregate.BookAggregates{
		Votes:    tally,
		Rating:   rating,
		Comments: count,
	}, nil
}

// aggregatesForPage does the same for a whole page with one query per view
func (s *BookService) aggregatesForPage(ctx context.Context, books []model.Book) (map[uuid.UUID]aggregate.BookAggregates, error) {
	ids := make([]uuid.UUID, len(books))
	for i, book := range books {
		ids[i] = book.ID
	}

	tallies, err := s.votes.Tallies(ctx, ids)
	if err != nil {
		return nil, err
	}

	ratings, err := s.ratings.RatingSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	counts, err := s.comments.CountsByBooks(ctx, ids)
	if err != nil {
		return nil, err
	}

	aggs := make(map[uuid.UUID]aggregate.BookAggregates, len(ids))
	for _, id := range ids {
		rating, ok := ratings[id]
		if !ok {
			rating = aggregate.EmptyRatingSummary(id)
		}
		tally, ok := tallies[id]
		if !ok {
			tally = aggregate.NewVoteTally(id, 0, 0)
		}
		count, ok := counts[id]
		if !ok {
			count = aggregate.CommentCount{BookID: id}
		}
		aggs[id] = aggregate.BookAggregates{Votes: tally, Rating: rating, Comments: count}
	}
	return aggs, nil
}

// ListBooks - newest first, optionally filtered by tag and title/author search
func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.BookResponse, *response.Meta, error) {
	req.Normalize()

	filter := &model.BookFilter{
		Tag:    req.Tag,
		Search: req.Search,
		Offset: (req.Page - 1) * req.Limit,
		Limit:  req.Limit,
	}

	books, total, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	aggs, err := s.aggregatesForPage(ctx, books)
	if err != nil {
		return nil, nil, err
	}

	items := make([]model.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, model.BookResponse{Book: book, BookAggregates: aggs[book.ID]})
	}

	return items, response.NewMeta(req.Page, req.Limit, total), nil
}

// GetBookDetail - book, aggregates and the viewer's vote
func (s *BookService) GetBookDetail(ctx context.Context, id uuid.UUID, viewer identity.Token) (*model.BookDetailResponse, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, shared.NewNotFoundError("book")
		}
		return nil, err
	}

	aggs, err := s.aggregatesFor(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.votes.CurrentVote(ctx, id, viewer.Value)
	if err != nil {
		return nil, err
	}

	return &model.BookDetailResponse{
		BookResponse: model.BookResponse{Book: *book, BookAggregates: aggs},
		CurrentVote:  current,
	}, nil
}

// CreateBook - validate, slug, insert
func (s *BookService) CreateBook(ctx context.Context, submitter *shared.SessionUser, req model.CreateBookRequest) (*model.BookResponse, error) {
	if submitter == nil || submitter.AccountID == "" {
		return nil, shared.NewUnauthorizedError("Sign in to submit a book")
	}

	// 1. Normalize and validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	// 2. Generate slug from title, suffix on collision
	baseSlug := utils.GenerateSlug(req.Title)
	if baseSlug == "" {
		baseSlug = "book"
	}
	slug, err := s.repo.GenerateUniqueSlug(ctx, baseSlug)
	if err != nil {
		return nil, err
	}

	// 3. Build entity
	now := time.Now().UTC()
	book := &model.Book{
		ID:          uuid.New(),
		Title:       req.Title,
		Slug:        slug,
		URL:         req.URL,
		Author:      req.Author,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Tags:        req.Tags,
		SubmittedBy: submitter.AccountID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// 4. Insert; a concurrent insert of the same slug surfaces as a retryable conflict
	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	logger.Info("book submitted", map[string]interface{}{
		"book_id": book.ID.String(),
		"slug":    book.Slug,
	})

	return &model.BookResponse{
		Book: *book,
		BookAggregates: aggregate.BookAggregates{
			Votes:    aggregate.NewVoteTally(book.ID, 0, 0),
			Rating:   aggregate.EmptyRatingSummary(book.ID),
			Comments: aggregate.CommentCount{BookID: book.ID},
		},
	}, nil
}

// DeleteBook - only the submitter may delete
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID, requester *shared.SessionUser) error {
	if requester == nil || requester.AccountID == "" {
		return shared.NewUnauthorizedError("Sign in to delete a book")
	}

	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return shared.NewNotFoundError("book")
		}
		return err
	}

	if book.SubmittedBy != requester.AccountID {
		return shared.NewForbiddenError("Only the submitter can delete this book")
	}

	if err := s.repo.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return shared.NewNotFoundError("book")
		}
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	logger.Info("book deleted", map[string]interface{}{"book_id": id.String()})
	return nil
}

// PreviewLink - fetch OpenGraph metadata for the submit form
func (s *BookService) PreviewLink(ctx context.Context, req model.PreviewRequest) (*preview.Metadata, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	return s.previews.Fetch(ctx, req.URL)
}
