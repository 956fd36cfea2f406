package movietable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/edit"
)

var (
	// ErrRowNotFound is returned when an event targets a row index that does
	// not exist.
	ErrRowNotFound = errors.New("movietable: row not found")
	// ErrUnknownEvent is returned for an event kind with no handler.
	ErrUnknownEvent = errors.New("movietable: unknown event")
)

// EventKind identifies a user interaction.
type EventKind string

const (
	EventSubmit    EventKind = "submit"
	EventBlur      EventKind = "blur"
	EventEditRow   EventKind = "edit"
	EventRemoveRow EventKind = "remove"
)

// Event carries the input of an interaction. Submit and blur read Title
// (and Rating for submit); edit and remove read Row.
type Event struct {
	Kind   EventKind
	Title  string
	Rating int
	Row    int
}

// Handler turns the current state and an event into the next state plus the
// view changes to apply. Handlers must not modify the state they are given.
type Handler func(ctx context.Context, s State, ev Event) (State, Mutation, error)

// Observer is notified about accepted and rejected interactions.
type Observer interface {
	RowAdded()
	RowRemoved()
	RowEdited()
	ValidationFailed(field string)
}

type nopObserver struct{}

func (nopObserver) RowAdded()               {}
func (nopObserver) RowRemoved()             {}
func (nopObserver) RowEdited()              {}
func (nopObserver) ValidationFailed(string) {}

// Controller dispatches events to their handlers. The edit handler asks its
// questions through the injected Asker.
type Controller struct {
	asker    edit.Asker
	observer Observer
	handlers map[EventKind]Handler
}

// Option customizes a Controller.
type Option func(*Controller)

// WithObserver installs an observer for row and validation events.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewController builds a controller whose edit workflow uses asker.
func NewController(asker edit.Asker, opts ...Option) *Controller {
	c := &Controller{asker: asker, observer: nopObserver{}}
	for _, opt := range opts {
		opt(c)
	}
	c.registerHandlers()
	return c
}

func (c *Controller) registerHandlers() {
	c.handlers = map[EventKind]Handler{
		EventSubmit:    c.submit,
		EventBlur:      c.blur,
		EventEditRow:   c.editRow,
		EventRemoveRow: c.removeRow,
	}
}

// WithAsker returns a copy of the controller that asks through a different
// Asker. Front ends that collect answers per request use it.
func (c *Controller) WithAsker(asker edit.Asker) *Controller {
	cp := *c
	cp.asker = asker
	cp.registerHandlers()
	return &cp
}

// With returns a copy of the controller with opts applied on top.
func (c *Controller) With(opts ...Option) *Controller {
	cp := *c
	for _, opt := range opts {
		opt(&cp)
	}
	cp.registerHandlers()
	return &cp
}

// Dispatch routes ev to its handler.
func (c *Controller) Dispatch(ctx context.Context, s State, ev Event) (State, Mutation, error) {
	h, ok := c.handlers[ev.Kind]
	if !ok {
		return s, Mutation{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return h(ctx, s, ev)
}

func (c *Controller) submit(_ context.Context, s State, ev Event) (State, Mutation, error) {
	next := s.Clone()
	var m Mutation

	if !domain.ValidateTitle(ev.Title) {
		c.observer.ValidationFailed(string(edit.FieldTitle))
		next.Form = Form{Title: ev.Title, Rating: ev.Rating, TitleError: domain.TitleValidationMessage}
		m.add(Op{Kind: OpSetTitleValidity, Message: domain.TitleValidationMessage})
		m.add(Op{Kind: OpReportValidity, Message: domain.TitleValidationMessage})
		return next, m, nil
	}

	row := domain.Movie{Title: strings.TrimSpace(ev.Title), Rating: ev.Rating}
	next.Rows = append(next.Rows, row)
	next.Form = DefaultForm()
	c.observer.RowAdded()

	m.add(Op{Kind: OpSetTitleValidity})
	m.add(Op{
		Kind:   OpAppendRow,
		Row:    len(next.Rows) - 1,
		Title:  row.Title,
		Rating: row.Rating,
		Stars:  domain.RenderStars(row.Rating),
	})
	m.add(Op{Kind: OpResetForm, Rating: domain.DefaultRating})
	return next, m, nil
}

func (c *Controller) blur(_ context.Context, s State, ev Event) (State, Mutation, error) {
	next := s.Clone()
	next.Form.Title = ev.Title
	var m Mutation
	if domain.ValidateTitle(ev.Title) {
		next.Form.TitleError = ""
		m.add(Op{Kind: OpSetTitleValidity})
	} else {
		next.Form.TitleError = domain.TitleValidationMessage
		m.add(Op{Kind: OpSetTitleValidity, Message: domain.TitleValidationMessage})
	}
	return next, m, nil
}

func (c *Controller) editRow(ctx context.Context, s State, ev Event) (State, Mutation, error) {
	if ev.Row < 0 || ev.Row >= len(s.Rows) {
		return s, Mutation{}, fmt.Errorf("%w: %d", ErrRowNotFound, ev.Row)
	}

	res, err := edit.Run(ctx, c.asker, s.Rows[ev.Row])
	if err != nil {
		var rejected *edit.RejectedError
		if !errors.As(err, &rejected) {
			return s, Mutation{}, fmt.Errorf("edit row %d: %w", ev.Row, err)
		}
		// Fields accepted before the rejection still apply.
		c.observer.ValidationFailed(string(rejected.Prompt.Field))
		next, m := c.applyEdit(s, ev.Row, res)
		return next, m, fmt.Errorf("edit row %d: %w", ev.Row, err)
	}

	next, m := c.applyEdit(s, ev.Row, res)
	return next, m, nil
}

func (c *Controller) applyEdit(s State, row int, res edit.Result) (State, Mutation) {
	next := s.Clone()
	var m Mutation
	if res.Title != nil {
		next.Rows[row].Title = strings.TrimSpace(*res.Title)
		m.add(Op{Kind: OpReplaceTitle, Row: row, Title: next.Rows[row].Title})
	}
	if res.Rating != nil {
		next.Rows[row].Rating = *res.Rating
		m.add(Op{
			Kind:   OpReplaceRating,
			Row:    row,
			Rating: *res.Rating,
			Stars:  domain.RenderStars(*res.Rating),
		})
	}
	if res.Changed() {
		c.observer.RowEdited()
	}
	return next, m
}

func (c *Controller) removeRow(_ context.Context, s State, ev Event) (State, Mutation, error) {
	if ev.Row < 0 || ev.Row >= len(s.Rows) {
		return s, Mutation{}, fmt.Errorf("%w: %d", ErrRowNotFound, ev.Row)
	}
	next := s.Clone()
	next.Rows = append(next.Rows[:ev.Row], next.Rows[ev.Row+1:]...)
	c.observer.RowRemoved()

	var m Mutation
	m.add(Op{Kind: OpRemoveRow, Row: ev.Row})
	return next, m, nil
}
