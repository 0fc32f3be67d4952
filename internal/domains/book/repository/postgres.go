package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"booknest/internal/domains/book/model"
	"booknest/internal/infrastructure/database"
)

const maxSlugAttempts = 100

type postgresRepository struct {
	pool database.Pool
}

func NewPostgresRepository(pool database.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, slug, url, author, description, cover_url, tags, submitted_by, created_at, updated_at`

func scanBook(row pgx.Row, extra ...any) (*model.Book, error) {
	book := &model.Book{}
	var tags []string

	dest := []any{
		&book.ID,
		&book.Title,
		&book.Slug,
		&book.URL,
		&book.Author,
		&book.Description,
		&book.CoverURL,
		pq.Array(&tags),
		&book.SubmittedBy,
		&book.CreatedAt,
		&book.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []string{}
	}
	book.Tags = tags
	return book, nil
}

// ============================================
// WRITE
// ============================================

func (r *postgresRepository) CreateBook(ctx context.Context, book *model.Book) error {
	if book.Tags == nil {
		book.Tags = []string{}
	}

	query := `
		INSERT INTO books (
			id, title, slug, url, author, description, cover_url, tags,
			submitted_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Slug,
		book.URL,
		book.Author,
		book.Description,
		book.CoverURL,
		pq.Array(book.Tags),
		book.SubmittedBy,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", database.MapError(err))
	}
	return nil
}

func (r *postgresRepository) DeleteBook(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", database.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// ============================================
// READ
// ============================================

func (r *postgresRepository) GetBookByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", database.MapError(err))
	}
	return book, nil
}

func (r *postgresRepository) ListBooks(ctx context.Context, filter *model.BookFilter) ([]model.Book, int, error) {
	query := `
		SELECT ` + bookColumns + `, COUNT(*) OVER() AS total
		FROM books
		WHERE ($1::text = '' OR $1::text = ANY(tags))
		  AND ($2::text = '' OR title ILIKE '%' || $2::text || '%' OR author ILIKE '%' || $2::text || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, filter.Tag, filter.Search, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", database.MapError(err))
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	total := 0
	for rows.Next() {
		book, err := scanBook(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", database.MapError(err))
	}

	// Page past the end: the window count is unavailable, fall back to a plain count
	if len(books) == 0 && filter.Offset > 0 {
		countQuery := `
			SELECT COUNT(*) FROM books
			WHERE ($1::text = '' OR $1::text = ANY(tags))
			  AND ($2::text = '' OR title ILIKE '%' || $2::text || '%' OR author ILIKE '%' || $2::text || '%')
		`
		if err := r.pool.QueryRow(ctx, countQuery, filter.Tag, filter.Search).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count books: %w", database.MapError(err))
		}
	}

	return books, total, nil
}

func (r *postgresRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", database.MapError(err))
	}
	return exists, nil
}

// GenerateUniqueSlug - add a numeric suffix while the slug is taken
func (r *postgresRepository) GenerateUniqueSlug(ctx context.Context, baseSlug string) (string, error) {
	slug := baseSlug
	counter := 1

	for {
		var exists bool
		err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE slug = $1)`, slug).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", database.MapError(err))
		}

		if !exists {
			return slug, nil
		}

		counter++
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)

		if counter > maxSlugAttempts {
			return "", fmt.Errorf("failed to generate unique slug after %d attempts", maxSlugAttempts)
		}
	}
}
