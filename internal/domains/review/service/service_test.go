package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/review/model"
	"booknest/internal/shared"
)

type reviewKey struct {
	bookID   uuid.UUID
	identity string
}

type memoryRepo struct {
	reviews map[reviewKey]*model.Review
	clock   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reviews: make(map[reviewKey]*model.Review)}
}

func (r *memoryRepo) Upsert(_ context.Context, review *model.Review) (bool, error) {
	r.clock++
	now := time.Unix(r.clock, 0)
	k := reviewKey{review.BookID, review.AuthorID}

	if existing, ok := r.reviews[k]; ok {
		review.ID = existing.ID
		review.CreatedAt = existing.CreatedAt
		review.UpdatedAt = now
		stored := *review
		r.reviews[k] = &stored
		return false, nil
	}

	review.ID = uuid.New()
	review.CreatedAt = now
	review.UpdatedAt = now
	stored := *review
	r.reviews[k] = &stored
	return true, nil
}

func (r *memoryRepo) GetByBookAndIdentity(_ context.Context, bookID uuid.UUID, identity string) (*model.Review, error) {
	if rv, ok := r.reviews[reviewKey{bookID, identity}]; ok {
		return rv, nil
	}
	return nil, model.ErrReviewNotFound
}

func (r *memoryRepo) DeleteByBookAndIdentity(_ context.Context, bookID uuid.UUID, identity string) error {
	k := reviewKey{bookID, identity}
	if _, ok := r.reviews[k]; !ok {
		return model.ErrReviewNotFound
	}
	delete(r.reviews, k)
	return nil
}

func (r *memoryRepo) ListByBook(_ context.Context, bookID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	var all []*model.Review
	for k, rv := range r.reviews {
		if k.bookID == bookID {
			all = append(all, rv)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *memoryRepo) GetRatingBreakdown(_ context.Context, bookID uuid.UUID) (map[int]int, error) {
	breakdown := make(map[int]int)
	for k, rv := range r.reviews {
		if k.bookID == bookID {
			breakdown[rv.Rating]++
		}
	}
	return breakdown, nil
}

func (r *memoryRepo) RatingSummary(ctx context.Context, bookID uuid.UUID) (aggregate.RatingSummary, error) {
	breakdown, _ := r.GetRatingBreakdown(ctx, bookID)
	return aggregate.NewRatingSummary(bookID, breakdown), nil
}

func (r *memoryRepo) RatingSummaries(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.RatingSummary, error) {
	summaries := make(map[uuid.UUID]aggregate.RatingSummary, len(bookIDs))
	for _, id := range bookIDs {
		summaries[id], _ = r.RatingSummary(ctx, id)
	}
	return summaries, nil
}

type staticBooks map[uuid.UUID]bool

func (b staticBooks) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return b[id], nil
}

func reviewer(n string) *shared.SessionUser {
	return &shared.SessionUser{AccountID: "acct-" + n, Name: n}
}

func rate(stars int) model.UpsertReviewRequest {
	return model.UpsertReviewRequest{Rating: stars, Content: "A thoughtful review text"}
}

func TestUpsertReview_SummaryOfThree(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()

	var last *model.ReviewResponse
	for i, stars := range []int{5, 3, 4} {
		resp, err := svc.UpsertReview(ctx, bookID, reviewer(string(rune('a'+i))), rate(stars))
		require.NoError(t, err)
		assert.True(t, resp.Created)
		last = resp
	}

	assert.Equal(t, 4.0, last.Summary.AverageRating)
	assert.Equal(t, 3, last.Summary.TotalReviews)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1}, last.Summary.StarBuckets)
}

func TestUpsertReview_ResubmissionUpdates(t *testing.T) {
	bookID := uuid.New()
	repo := newMemoryRepo()
	svc := NewReviewService(repo, staticBooks{bookID: true})
	ctx := context.Background()

	first, err := svc.UpsertReview(ctx, bookID, reviewer("a"), rate(2))
	require.NoError(t, err)

	second, err := svc.UpsertReview(ctx, bookID, reviewer("a"), rate(5))
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)
	assert.True(t, second.Review.IsEdited())
	assert.Equal(t, 1, second.Summary.TotalReviews)
	assert.Equal(t, 5.0, second.Summary.AverageRating)
	assert.Len(t, repo.reviews, 1)
}

func TestUpsertReview_Validation(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()
	blank := "   "

	tests := []struct {
		name string
		req  model.UpsertReviewRequest
	}{
		{"rating too high", rate(6)},
		{"rating zero", rate(0)},
		{"content too short", model.UpsertReviewRequest{Rating: 4, Content: "meh"}},
		{"blank title", model.UpsertReviewRequest{Rating: 4, Title: &blank, Content: "A thoughtful review text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertReview(ctx, bookID, reviewer("a"), tt.req)
			assert.True(t, shared.IsKind(err, shared.KindValidation))
		})
	}
}

func TestUpsertReview_RequiresSessionAndBook(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, bookID, nil, rate(4))
	assert.True(t, shared.IsKind(err, shared.KindUnauthorized))

	_, err = svc.UpsertReview(ctx, uuid.New(), reviewer("a"), rate(4))
	require.Error(t, err)
	appErr, _ := shared.AsAppError(err)
	assert.Equal(t, shared.ErrCodeUnknownTarget, appErr.Code)
}

func TestDeleteReview(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()

	_, err := svc.UpsertReview(ctx, bookID, reviewer("a"), rate(4))
	require.NoError(t, err)

	resp, err := svc.DeleteReview(ctx, bookID, reviewer("a"))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.TotalReviews)
	assert.Equal(t, 0.0, resp.Summary.AverageRating)

	_, err = svc.DeleteReview(ctx, bookID, reviewer("a"))
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestListReviews_Paginates(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.UpsertReview(ctx, bookID, reviewer(string(rune('a'+i))), rate(i+1))
		require.NoError(t, err)
	}

	resp, err := svc.ListReviews(ctx, bookID, nil, model.ListReviewsRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Reviews, 2)
	assert.Equal(t, 5, resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 3.0, resp.Summary.AverageRating)

	_, err = svc.ListReviews(ctx, uuid.New(), nil, model.ListReviewsRequest{})
	assert.True(t, shared.IsKind(err, shared.KindNotFound))
}

func TestListReviews_IncludesViewersOwnReview(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.UpsertReview(ctx, bookID, reviewer(string(rune('a'+i))), rate(i+1))
		require.NoError(t, err)
	}

	// "a" wrote the oldest review, which is not on the first page of one
	resp, err := svc.ListReviews(ctx, bookID, reviewer("a"), model.ListReviewsRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Reviews, 1)
	assert.Equal(t, "acct-c", resp.Reviews[0].AuthorID)
	require.NotNil(t, resp.MyReview)
	assert.Equal(t, "acct-a", resp.MyReview.AuthorID)
	assert.Equal(t, 1, resp.MyReview.Rating)

	resp, err = svc.ListReviews(ctx, bookID, reviewer("nobody"), model.ListReviewsRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.MyReview)

	resp, err = svc.ListReviews(ctx, bookID, nil, model.ListReviewsRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.MyReview)
}

func TestGetRatingSummary_Empty(t *testing.T) {
	bookID := uuid.New()
	svc := NewReviewService(newMemoryRepo(), staticBooks{bookID: true})

	summary, err := svc.GetRatingSummary(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, aggregate.EmptyRatingSummary(bookID), *summary)
}
