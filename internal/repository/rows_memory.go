package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Clark-Hu/movie-table/internal/domain"
)

type memorySession struct {
	rows    []domain.Movie
	savedAt time.Time
}

// MemoryRows keeps sessions in a map. Everything is lost on restart.
type MemoryRows struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	now      func() time.Time
}

// NewMemoryRows returns an empty in-memory store.
func NewMemoryRows() *MemoryRows {
	return &MemoryRows{sessions: make(map[string]*memorySession), now: time.Now}
}

// Load returns a copy of the session's rows.
func (m *MemoryRows) Load(ctx context.Context, session string) ([]domain.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[session]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]domain.Movie, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// Save stores a copy of rows.
func (m *MemoryRows) Save(ctx context.Context, session string, rows []domain.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]domain.Movie, len(rows))
	copy(stored, rows)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session] = &memorySession{rows: stored, savedAt: m.now()}
	return nil
}

// Delete drops the session.
func (m *MemoryRows) Delete(ctx context.Context, session string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, session)
	return nil
}

// PurgeIdle drops sessions last saved before cutoff.
func (m *MemoryRows) PurgeIdle(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for id, s := range m.sessions {
		if s.savedAt.Before(cutoff) {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged, nil
}
