package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"booknest/internal/domains/aggregate"
	"booknest/internal/domains/vote/model"
	"booknest/internal/infrastructure/database"
	"booknest/internal/shared"
)

var errVoteVanished = errors.New("vote row removed by a concurrent request")

type postgresRepository struct {
	pool database.Pool
}

func NewPostgresRepository(pool database.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// =====================================================
// WRITE PATH
// =====================================================

func (r *postgresRepository) ApplyVote(
	ctx context.Context,
	bookID uuid.UUID,
	identity string,
	kind model.Kind,
) (*model.Kind, error) {
	var result *model.Kind

	err := database.ExecuteInTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// Step 1: No prior vote, the insert wins and we are done
		var inserted string
		err := tx.QueryRow(ctx, `
			INSERT INTO book_votes (id, book_id, identity, kind)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (book_id, identity) DO NOTHING
			RETURNING kind
		`, uuid.New(), bookID, identity, string(kind)).Scan(&inserted)
		if err == nil {
			k := model.Kind(inserted)
			result = &k
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return database.MapError(err)
		}

		// Step 2: Lock the existing row
		var current string
		err = tx.QueryRow(ctx, `
			SELECT kind FROM book_votes
			WHERE book_id = $1 AND identity = $2
			FOR UPDATE
		`, bookID, identity).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.NewConflictError(errVoteVanished)
		}
		if err != nil {
			return database.MapError(err)
		}

		// Step 3: Apply the transition
		currentKind := model.Kind(current)
		next, op := model.Transition(&currentKind, kind)

		switch op {
		case model.OpDelete:
			tag, err := tx.Exec(ctx, `
				DELETE FROM book_votes WHERE book_id = $1 AND identity = $2
			`, bookID, identity)
			if err != nil {
				return database.MapError(err)
			}
			if tag.RowsAffected() == 0 {
				return shared.NewConflictError(errVoteVanished)
			}
		case model.OpReplace:
			tag, err := tx.Exec(ctx, `
				UPDATE book_votes SET kind = $3, updated_at = NOW()
				WHERE book_id = $1 AND identity = $2
			`, bookID, identity, string(*next))
			if err != nil {
				return database.MapError(err)
			}
			if tag.RowsAffected() == 0 {
				return shared.NewConflictError(errVoteVanished)
			}
		default:
			return shared.NewConflictError(fmt.Errorf("unexpected vote transition %s", op))
		}

		result = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// =====================================================
// READS
// =====================================================

func (r *postgresRepository) CurrentVote(ctx context.Context, bookID uuid.UUID, identity string) (*model.Kind, error) {
	var kind string
	err := r.pool.QueryRow(ctx, `
		SELECT kind FROM book_votes WHERE book_id = $1 AND identity = $2
	`, bookID, identity).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current vote: %w", database.MapError(err))
	}

	k := model.Kind(kind)
	return &k, nil
}

func (r *postgresRepository) Tally(ctx context.Context, bookID uuid.UUID) (aggregate.VoteTally, error) {
	var upvotes, downvotes int
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'upvote'),
			COUNT(*) FILTER (WHERE kind = 'downvote')
		FROM book_votes
		WHERE book_id = $1
	`, bookID).Scan(&upvotes, &downvotes)
	if err != nil {
		return aggregate.VoteTally{}, fmt.Errorf("failed to tally votes: %w", database.MapError(err))
	}

	return aggregate.NewVoteTally(bookID, upvotes, downvotes), nil
}

func (r *postgresRepository) Tallies(ctx context.Context, bookIDs []uuid.UUID) (map[uuid.UUID]aggregate.VoteTally, error) {
	tallies := make(map[uuid.UUID]aggregate.VoteTally, len(bookIDs))
	for _, id := range bookIDs {
		tallies[id] = aggregate.NewVoteTally(id, 0, 0)
	}
	if len(bookIDs) == 0 {
		return tallies, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			book_id,
			COUNT(*) FILTER (WHERE kind = 'upvote'),
			COUNT(*) FILTER (WHERE kind = 'downvote')
		FROM book_votes
		WHERE book_id = ANY($1::uuid[])
		GROUP BY book_id
	`, database.UUIDArray(bookIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", database.MapError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID             uuid.UUID
			upvotes, downvotes int
		)
		if err := rows.Scan(&bookID, &upvotes, &downvotes); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		tallies[bookID] = aggregate.NewVoteTally(bookID, upvotes, downvotes)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to tally votes: %w", database.MapError(err))
	}

	return tallies, nil
}
