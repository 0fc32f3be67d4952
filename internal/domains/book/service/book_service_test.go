package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/book/model"
	"booknest/internal/domains/identity"
	votemodel "booknest/internal/domains/vote/model"
	"booknest/internal/infrastructure/preview"
	"booknest/internal/shared"
)

type memoryRepo struct {
	books map[uuid.UUID]model.Book
	order []uuid.UUID
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{books: make(map[uuid.UUID]model.Book)}
}

func (r *memoryRepo) CreateBook(_ context.Context, book *model.Book) error {
	for _, b := range r.books {
		if b.Slug == book.Slug {
			return shared.NewConflictError(errors.New("duplicate slug"))
		}
	}
	r.books[book.ID] = *book
	r.order = append(r.order, book.ID)
	return nil
}

func (r *memoryRepo) GetBookByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	return &b, nil
}

func (r *memoryRepo) ListBooks(_ context.Context, filter *model.BookFilter) ([]model.Book, int, error) {
	var matched []model.Book
	for i := len(r.order) - 1; i >= 0; i-- {
		b, ok := r.books[r.order[i]]
		if !ok {
			continue
		}
		if filter.Tag != "" && !contains(b.Tags, filter.Tag) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(b.Title+" "+b.Author), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, b)
	}

	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], len(matched), nil
}

func (r *memoryRepo) DeleteBook(_ context.Context, id uuid.UUID) error {
	if _, ok := r.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memoryRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.books[id]
	return ok, nil
}

func (r *memoryRepo) GenerateUniqueSlug(_ context.Context, base string) (string, error) {
	taken := make(map[string]bool)
	for _, b := range r.books {
		taken[b.Slug] = true
	}
	slug := base
	for n := 2; taken[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	return slug, nil
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// fixedAggregates returns canned views keyed by book
type fixedAggregates struct {
	up, down int
	ratings  []int
	comments int
	voteOf   map[string]votemodel.Kind
	err      error

	singleCalls, batchCalls int
}

func (f *fixedAggregates) Tally(_ context.Context, bookID uuid.UUID) (aggregate.VoteTally, error) {
	f.singleCalls++
	if f.err != nil {
		return aggregate.VoteTally{}, f.err
	}
	return aggregate.NewVoteTally(bookID, f.up, f.down), nil
}

func (f *fixedAggregates) CurrentVote(_ context.Context, _ uuid.UUID, identity string) (*votemodel.Kind, error) {
	if k, ok := f.voteOf[identity]; ok {
		return &k, nil
	}
	return nil, nil
}

func (f *fixedAggregates) RatingSummary(_ context.Context, bookID uuid.UUID) (aggregate.RatingSummary, error) {
	return aggregate.SummarizeRatings(bookID, f.ratings), nil
}

func (f *fixedAggregates) CountByBook(_ context.Context, bookID uuid.UUID) (aggregate.CommentCount, error) {
	return aggregate.CommentCount{BookID: bookID, Total: f.comments}, nil
}

func (f *fixedAggregates) Tallies(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.VoteTally, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]aggregate.VoteTally, len(bookIDs))
	for _, id := range bookIDs {
		out[id] = aggregate.NewVoteTally(id, f.up, f.down)
	}
	return out, nil
}

func (f *fixedAggregates) RatingSummaries(_ context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.RatingSummary, error) {
	f.batchCalls++
	out := make(map[uuid.UUID]aggregate.RatingSummary, len(bookIDs))
	for _, id := range bookIDs {
		out[id] = aggregate.SummarizeRatings(id, f.ratings)
	}
	return out, nil
}

// CountsByBooks leaves books without comments out, like a GROUP BY would
func (f *fixedAggregates) CountsByBooks(_ context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.CommentCount, error) {
	f.batchCalls++
	out := make(map[uuid.UUID]aggregate.CommentCount, len(bookIDs))
	if f.comments == 0 {
		return out, nil
	}
	for _, id := range bookIDs {
		out[id] = aggregate.CommentCount{BookID: id, Total: f.comments}
	}
	return out, nil
}

type stubPreviewer struct{ url string }

func (p *stubPreviewer) Fetch(_ context.Context, rawURL string) (*preview.Metadata, error) {
	p.url = rawURL
	return &preview.Metadata{URL: rawURL, Title: "Previewed"}, nil
}

func newService(repo *memoryRepo, aggs *fixedAggregates) ServiceInterface {
	return NewService(repo, aggs, aggs, aggs, &stubPreviewer{})
}

var submitter = &shared.SessionUser{AccountID: "acct-sub", Name: "Sub"}

func createReq(title string, tags ...string) model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:  title,
		URL:    "https://example.org/" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Author: "Someone",
		Tags:   tags,
	}
}

func TestCreateBook_SlugAndEmptyAggregates(t *testing.T) {
	svc := newService(newMemoryRepo(), &fixedAggregates{})
	ctx := context.Background()

	first, err := svc.CreateBook(ctx, submitter, createReq("Piranesi", "Fantasy"))
	require.NoError(t, err)
	assert.Equal(t, "piranesi", first.Slug)
	assert.Equal(t, []string{"fantasy"}, first.Tags)
	assert.Equal(t, "acct-sub", first.SubmittedBy)
	assert.Equal(t, 0, first.Votes.Score)
	assert.Equal(t, 0, first.Rating.TotalReviews)
	assert.Len(t, first.Rating.StarBuckets, 5)

	second, err := svc.CreateBook(ctx, submitter, createReq("Piranesi"))
	require.NoError(t, err)
	assert.Equal(t, "piranesi-2", second.Slug)
}

func TestCreateBook_RequiresSessionAndValidInput(t *testing.T) {
	svc := newService(newMemoryRepo(), &fixedAggregates{})
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, nil, createReq("Piranesi"))
	assert.True(t, shared.IsKind(err, shared.KindUnauthorized))

	bad := createReq("Piranesi")
	bad.URL = "piranesi"
	_, err = svc.CreateBook(ctx, submitter, bad)
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}

func TestListBooks_EmbedsAggregates(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, &fixedAggregates{up: 3, down: 1, ratings: []int{5, 3, 4}, comments: 4})
	ctx := context.Background()

	for _, title := range []string{"Kindred", "Beloved", "Jazz"} {
		_, err := svc.CreateBook(ctx, submitter, createReq(title, "classics"))
		require.NoError(t, err)
	}

	items, meta, err := svc.ListBooks(ctx, model.ListBooksRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Jazz", items[0].Title)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	assert.Equal(t, 2, items[0].Votes.Score)
	assert.Equal(t, 4.0, items[0].Rating.AverageRating)
	assert.Equal(t, 4, items[0].Comments.Total)
}

func TestListBooks_OneQueryPerAggregateForTheWholePage(t *testing.T) {
	repo := newMemoryRepo()
	aggs := &fixedAggregates{}
	svc := newService(repo, aggs)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := svc.CreateBook(ctx, submitter, createReq(fmt.Sprintf("Book %d", i)))
		require.NoError(t, err)
	}

	items, _, err := svc.ListBooks(ctx, model.ListBooksRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 20)
	assert.Equal(t, 3, aggs.batchCalls)
	assert.Zero(t, aggs.singleCalls)

	// Missing entries are zero-filled per book
	for _, item := range items {
		assert.Equal(t, item.ID, item.Comments.BookID)
		assert.Zero(t, item.Comments.Total)
		assert.Len(t, item.Rating.StarBuckets, 5)
	}
}

func TestListBooks_Filters(t *testing.T) {
	svc := newService(newMemoryRepo(), &fixedAggregates{})
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, submitter, createReq("Kindred", "scifi"))
	require.NoError(t, err)
	_, err = svc.CreateBook(ctx, submitter, createReq("Beloved", "classics"))
	require.NoError(t, err)

	items, _, err := svc.ListBooks(ctx, model.ListBooksRequest{Tag: "SciFi"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kindred", items[0].Title)

	items, _, err = svc.ListBooks(ctx, model.ListBooksRequest{Search: "belo"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Beloved", items[0].Title)
}

func TestGetBookDetail_CurrentVote(t *testing.T) {
	repo := newMemoryRepo()
	aggs := &fixedAggregates{up: 1, voteOf: map[string]votemodel.Kind{"acct-voter": votemodel.KindUpvote}}
	svc := newService(repo, aggs)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, submitter, createReq("Kindred"))
	require.NoError(t, err)

	detail, err := svc.GetBookDetail(ctx, created.ID, identity.Token{Value: "acct-voter"})
	require.NoError(t, err)
	require.NotNil(t, detail.CurrentVote)
	assert.Equal(t, votemodel.KindUpvote, *detail.CurrentVote)
	assert.Equal(t, 1, detail.Votes.Upvotes)

	detail, err = svc.GetBookDetail(ctx, created.ID, identity.Token{Value: "someone-else", Anonymous: true})
	require.NoError(t, err)
	assert.Nil(t, detail.CurrentVote)

	_, err = svc.GetBookDetail(ctx, uuid.New(), identity.Token{})
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestGetBookDetail_StoreUnavailable(t *testing.T) {
	repo := newMemoryRepo()
	aggs := &fixedAggregates{}
	svc := newService(repo, aggs)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, submitter, createReq("Kindred"))
	require.NoError(t, err)

	aggs.err = shared.NewStoreUnavailableError(errors.New("connection refused"))
	_, err = svc.GetBookDetail(ctx, created.ID, identity.Token{})
	assert.True(t, shared.IsKind(err, shared.KindStoreUnavailable))
}

func TestDeleteBook_OnlySubmitter(t *testing.T) {
	repo := newMemoryRepo()
	svc := newService(repo, &fixedAggregates{})
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, submitter, createReq("Kindred"))
	require.NoError(t, err)

	err = svc.DeleteBook(ctx, created.ID, &shared.SessionUser{AccountID: "acct-other"})
	assert.True(t, shared.IsKind(err, shared.KindForbidden))

	require.NoError(t, svc.DeleteBook(ctx, created.ID, submitter))
	assert.Empty(t, repo.books)

	err = svc.DeleteBook(ctx, created.ID, submitter)
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestPreviewLink(t *testing.T) {
	previewer := &stubPreviewer{}
	svc := NewService(newMemoryRepo(), &fixedAggregates{}, &fixedAggregates{}, &fixedAggregates{}, previewer)

	meta, err := svc.PreviewLink(context.Background(), model.PreviewRequest{URL: "https://example.org/book"})
	require.NoError(t, err)
	assert.Equal(t, "Previewed", meta.Title)
	assert.Equal(t, "https://example.org/book", previewer.url)

	_, err = svc.PreviewLink(context.Background(), model.PreviewRequest{URL: "nope"})
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}
