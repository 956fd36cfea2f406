package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-table/internal/domain"
)

// PostgresRows stores sessions in the sessions/movie_rows tables.
type PostgresRows struct {
	pool *pgxpool.Pool
}

// Load returns the session's rows ordered by position.
func (r *PostgresRows) Load(ctx context.Context, session string) ([]domain.Movie, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, session).Scan(&exists); err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.pool.Query(ctx, `
        SELECT title, rating
        FROM movie_rows
        WHERE session_id = $1
        ORDER BY position
    `, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.Title, &m.Rating); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Save replaces the session's rows in a single transaction.
func (r *PostgresRows) Save(ctx context.Context, session string, movies []domain.Movie) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	const upsertSession = `
        INSERT INTO sessions (id) VALUES ($1)
        ON CONFLICT (id) DO UPDATE SET updated_at = now()
    `
	if _, err := tx.Exec(ctx, upsertSession, session); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM movie_rows WHERE session_id = $1`, session); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}

	if len(movies) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"movie_rows"},
			[]string{"session_id", "position", "title", "rating"},
			pgx.CopyFromSlice(len(movies), func(i int) ([]any, error) {
				return []any{session, i, movies[i].Title, movies[i].Rating}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Delete drops the session; its rows cascade.
func (r *PostgresRows) Delete(ctx context.Context, session string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, session); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeIdle drops sessions whose last save is older than cutoff.
func (r *PostgresRows) PurgeIdle(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge idle sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
