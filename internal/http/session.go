package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Clark-Hu/movie-table/internal/movietable"
	"github.com/Clark-Hu/movie-table/internal/repository"
)

const (
	sessionCookie = "movietable_session"
	tracerName    = "github.com/Clark-Hu/movie-table/internal/http"
)

// sessionLocks serializes event handling per session so each table sees one
// event at a time, the way a page's event loop would.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// sessionID returns the caller's session, issuing a new cookie when the
// request carries none or a malformed one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := ksuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := ksuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) loadState(ctx context.Context, id string) (movietable.State, error) {
	rows, err := s.repo.Rows.Load(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return movietable.NewState(), nil
		}
		return movietable.State{}, fmt.Errorf("load session %s: %w", id, err)
	}
	return movietable.WithRows(rows), nil
}

// dispatch runs one event against the caller's table and persists the rows
// when the event changed them. An event can change rows and still fail, as
// an edit whose rating was rejected after its title was accepted; those rows
// are saved too. Observer events reach the metrics only once the rows are
// stored. When loading or saving fails the returned state is the state
// before the event.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ctrl *movietable.Controller, ev movietable.Event) (movietable.State, movietable.Mutation, error) {
	id := s.sessionID(w, r)
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), string(ev.Kind))
	defer span.End()
	span.SetAttributes(attribute.String("movietable.session", id), attribute.Int("movietable.row", ev.Row))

	unlock := s.locks.lock(id)
	defer unlock()

	state, err := s.loadState(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return movietable.State{}, movietable.Mutation{}, err
	}

	pending := &pendingEvents{}
	next, m, dispatchErr := ctrl.With(movietable.WithObserver(pending)).Dispatch(ctx, state, ev)
	if dispatchErr != nil {
		span.SetStatus(codes.Error, dispatchErr.Error())
	}
	span.SetAttributes(attribute.Int("movietable.ops", len(m.Ops)))
	if m.ChangesRows() {
		if err := s.repo.Rows.Save(ctx, id, next.Rows); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return state, movietable.Mutation{}, fmt.Errorf("save session %s: %w", id, err)
		}
	}
	pending.flush(s.metrics)
	return next, m, dispatchErr
}

// pendingEvents holds observer calls until the event's rows are stored.
type pendingEvents struct {
	events []func(movietable.Observer)
}

func (p *pendingEvents) RowAdded()   { p.events = append(p.events, movietable.Observer.RowAdded) }
func (p *pendingEvents) RowRemoved() { p.events = append(p.events, movietable.Observer.RowRemoved) }
func (p *pendingEvents) RowEdited()  { p.events = append(p.events, movietable.Observer.RowEdited) }

func (p *pendingEvents) ValidationFailed(field string) {
	p.events = append(p.events, func(o movietable.Observer) { o.ValidationFailed(field) })
}

func (p *pendingEvents) flush(o movietable.Observer) {
	for _, e := range p.events {
		e(o)
	}
	p.events = nil
}

// currentState loads the caller's table without dispatching anything.
func (s *Server) currentState(w http.ResponseWriter, r *http.Request) (movietable.State, error) {
	id := s.sessionID(w, r)
	unlock := s.locks.lock(id)
	defer unlock()
	return s.loadState(r.Context(), id)
}
