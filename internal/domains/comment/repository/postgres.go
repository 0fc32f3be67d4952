package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/comment/model"
	"booknest/internal/infrastructure/database"
	"booknest/internal/shared"
)

var errLikeVanished = errors.New("like row changed by a concurrent request")

type postgresRepository struct {
	pool database.Pool
}

func NewPostgresRepository(pool database.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// =====================================================
// COMMENTS
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, comment *model.Comment) error {
	query := `
		INSERT INTO comments (id, book_id, parent_id, author_id, author_name, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.BookID,
		comment.ParentID,
		comment.AuthorID,
		comment.AuthorName,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", database.MapError(err))
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := `
		SELECT id, book_id, parent_id, author_id, author_name, content, created_at
		FROM comments
		WHERE id = $1
	`

	comment := &model.Comment{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.BookID,
		&comment.ParentID,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", database.MapError(err))
	}
	return comment, nil
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT id, book_id, parent_id, author_id, author_name, content, created_at
		FROM comments
		WHERE book_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", database.MapError(err))
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.BookID,
			&c.ParentID,
			&c.AuthorID,
			&c.AuthorName,
			&c.Content,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", database.MapError(err))
	}

	return comments, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", database.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresRepository) CountByBook(ctx context.Context, bookID uuid.UUID) (aggregate.CommentCount, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE book_id = $1`, bookID).Scan(&total)
	if err != nil {
		return aggregate.CommentCount{}, fmt.Errorf("failed to count comments: %w", database.MapError(err))
	}
	return aggregate.CommentCount{BookID: bookID, Total: total}, nil
}

func (r *postgresRepository) CountsByBooks(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.CommentCount, error) {
	counts := make(map[uuid.UUID]aggregate.CommentCount, len(bookIDs))
	for _, id := range bookIDs {
		counts[id] = aggregate.CommentCount{BookID: id}
	}
	if len(bookIDs) == 0 {
		return counts, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT book_id, COUNT(*)
		FROM comments
		WHERE book_id = ANY($1::uuid[])
		GROUP BY book_id
	`, database.UUIDArray(bookIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", database.MapError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID uuid.UUID
			total  int
		)
		if err := rows.Scan(&bookID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan comment count: %w", err)
		}
		counts[bookID] = aggregate.CommentCount{BookID: bookID, Total: total}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", database.MapError(err))
	}

	return counts, nil
}

// =====================================================
// LIKES
// =====================================================

func (r *postgresRepository) ToggleLike(ctx context.Context, commentID uuid.UUID, identity string) (bool, error) {
	var liked bool

	err := database.ExecuteInTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var id uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO comment_likes (comment_id, identity)
			VALUES ($1, $2)
			ON CONFLICT (comment_id, identity) DO NOTHING
			RETURNING comment_id
		`, commentID, identity).Scan(&id)
		if err == nil {
			liked = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return database.MapError(err)
		}

		err = tx.QueryRow(ctx, `
			DELETE FROM comment_likes
			WHERE comment_id = $1 AND identity = $2
			RETURNING comment_id
		`, commentID, identity).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.NewConflictError(errLikeVanished)
		}
		if err != nil {
			return database.MapError(err)
		}

		liked = false
		return nil
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

func (r *postgresRepository) CountLikes(ctx context.Context, commentID uuid.UUID) (int, error) {
	var likes int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comment_likes WHERE comment_id = $1`, commentID).Scan(&likes)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", database.MapError(err))
	}
	return likes, nil
}

func (r *postgresRepository) LikeCountsByBook(ctx context.Context, bookID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `
		SELECT cl.comment_id, COUNT(*)
		FROM comment_likes cl
		JOIN comments c ON c.id = cl.comment_id
		WHERE c.book_id = $1
		GROUP BY cl.comment_id
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", database.MapError(err))
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			commentID uuid.UUID
			likes     int
		)
		if err := rows.Scan(&commentID, &likes); err != nil {
			return nil, fmt.Errorf("failed to scan like count: %w", err)
		}
		counts[commentID] = likes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", database.MapError(err))
	}

	return counts, nil
}

func (r *postgresRepository) LikedComments(
	ctx context.Context,
	bookID uuid.UUID,
	identities map[uuid.UUID]string,
) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(identities) == 0 {
		return liked, nil
	}

	// A session identity is the same for every comment; anonymous ones differ per comment
	candidates := make([]string, 0, len(identities))
	seen := make(map[string]struct{}, len(identities))
	for _, identity := range identities {
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}
		candidates = append(candidates, identity)
	}

	query := `
		SELECT cl.comment_id, cl.identity
		FROM comment_likes cl
		JOIN comments c ON c.id = cl.comment_id
		WHERE c.book_id = $1 AND cl.identity = ANY($2)
	`

	rows, err := r.pool.Query(ctx, query, bookID, pq.Array(candidates))
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", database.MapError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			commentID uuid.UUID
			identity  string
		)
		if err := rows.Scan(&commentID, &identity); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		if identities[commentID] == identity {
			liked[commentID] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", database.MapError(err))
	}

	return liked, nil
}
