package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/store"
)

// ErrNotFound indicates the requested session does not exist.
var ErrNotFound = errors.New("repository: not found")

// Rows persists the ordered movie rows of each session.
type Rows interface {
	// Load returns the rows of a session, or ErrNotFound.
	Load(ctx context.Context, session string) ([]domain.Movie, error)
	// Save replaces the rows of a session, creating it when needed.
	Save(ctx context.Context, session string, rows []domain.Movie) error
	// Delete drops a session and its rows. Unknown sessions are ignored.
	Delete(ctx context.Context, session string) error
	// PurgeIdle drops sessions not saved since cutoff and reports how many.
	PurgeIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// Repository aggregates the storage used by the movie table.
type Repository struct {
	Rows Rows
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{Rows: &PostgresRows{pool: pool}}
}

// NewMemory constructs a Repository that keeps sessions in process memory.
func NewMemory() *Repository {
	return &Repository{Rows: NewMemoryRows()}
}
