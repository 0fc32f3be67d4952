package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/review/model"
	"booknest/internal/infrastructure/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool database.Pool
}

func NewPostgresReviewRepository(pool database.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

const reviewColumns = `id, book_id, identity, author_name, rating, title, content, created_at, updated_at`

func scanReview(row pgx.Row) (*model.Review, error) {
	review := &model.Review{}
	err := row.Scan(
		&review.ID,
		&review.BookID,
		&review.AuthorID,
		&review.AuthorName,
		&review.Rating,
		&review.Title,
		&review.Content,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	return review, err
}

// =====================================================
// UPSERT
// =====================================================

func (r *postgresReviewRepository) Upsert(ctx context.Context, review *model.Review) (bool, error) {
	// xmax is 0 only for a freshly inserted tuple
	query := `
		INSERT INTO reviews (id, book_id, identity, author_name, rating, title, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (book_id, identity) DO UPDATE SET
			author_name = EXCLUDED.author_name,
			rating      = EXCLUDED.rating,
			title       = EXCLUDED.title,
			content     = EXCLUDED.content,
			updated_at  = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		uuid.New(),
		review.BookID,
		review.AuthorID,
		review.AuthorName,
		review.Rating,
		review.Title,
		review.Content,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("failed to save review: %w", database.MapError(err))
	}

	return inserted, nil
}

// =====================================================
// GET / DELETE
// =====================================================

func (r *postgresReviewRepository) GetByBookAndIdentity(
	ctx context.Context,
	bookID uuid.UUID,
	identity string,
) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE book_id = $1 AND identity = $2`

	review, err := scanReview(r.pool.QueryRow(ctx, query, bookID, identity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", database.MapError(err))
	}
	return review, nil
}

func (r *postgresReviewRepository) DeleteByBookAndIdentity(
	ctx context.Context,
	bookID uuid.UUID,
	identity string,
) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE book_id = $1 AND identity = $2`, bookID, identity)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", database.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresReviewRepository) ListByBook(
	ctx context.Context,
	bookID uuid.UUID,
	page, limit int,
) ([]*model.Review, int, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, bookID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", database.MapError(err))
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", database.MapError(err))
	}

	// Count total
	var total int
	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", database.MapError(err))
	}

	return reviews, total, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresReviewRepository) GetRatingBreakdown(
	ctx context.Context,
	bookID uuid.UUID,
) (map[int]int, error) {
	query := `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE book_id = $1
		GROUP BY rating
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", database.MapError(err))
	}
	defer rows.Close()

	breakdown := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
		}
		breakdown[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", database.MapError(err))
	}

	return breakdown, nil
}

func (r *postgresReviewRepository) RatingSummary(ctx context.Context, bookID uuid.UUID) (aggregate.RatingSummary, error) {
	breakdown, err := r.GetRatingBreakdown(ctx, bookID)
	if err != nil {
		return aggregate.RatingSummary{}, err
	}
	return aggregate.NewRatingSummary(bookID, breakdown), nil
}

func (r *postgresReviewRepository) RatingSummaries(
	ctx context.Context,
	bookIDs []uuid.UUID,
) (map[uuid.UUID]aggregate.RatingSummary, error) {
	breakdowns := make(map[uuid.UUID]map[int]int, len(bookIDs))
	for _, id := range bookIDs {
		breakdowns[id] = make(map[int]int)
	}

	if len(bookIDs) > 0 {
		rows, err := r.pool.Query(ctx, `
			SELECT book_id, rating, COUNT(*) AS count
			FROM reviews
			WHERE book_id = ANY($1::uuid[])
			GROUP BY book_id, rating
		`, database.UUIDArray(bookIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to get rating breakdowns: %w", database.MapError(err))
		}
		defer rows.Close()

		for rows.Next() {
			var (
				bookID        uuid.UUID
				rating, count int
			)
			if err := rows.Scan(&bookID, &rating, &count); err != nil {
				return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
			}
			if _, ok := breakdowns[bookID]; !ok {
				breakdowns[bookID] = make(map[int]int)
			}
			breakdowns[bookID][rating] = count
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get rating breakdowns: %w", database.MapError(err))
		}
	}

	summaries := make(map[uuid.UUID]aggregate.RatingSummary, len(breakdowns))
	for bookID, breakdown := range breakdowns {
		summaries[bookID] = aggregate.NewRatingSummary(bookID, breakdown)
	}
	return summaries, nil
}
