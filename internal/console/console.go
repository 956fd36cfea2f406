// Package console is the terminal front end: a line-oriented command loop
// over the movie table, with edit prompts delegated to an edit.Asker.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/edit"
	"github.com/Clark-Hu/movie-table/internal/movietable"
)

const (
	addTitleMessage  = "Title"
	addRatingMessage = "Rating (0 - 10)"
)

const helpText = `commands:
  add          add a movie
  edit N       edit row N
  remove N     remove row N
  list         show the table
  help         show this help
  quit         exit
`

// ErrQuit ends the command loop.
var ErrQuit = errors.New("console: quit")

// Console owns one table for the life of the process.
type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	asker edit.Asker
	ctrl  *movietable.Controller
	state movietable.State
}

// New builds a console reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, asker edit.Asker, opts ...movietable.Option) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		asker: asker,
		ctrl:  movietable.NewController(asker, opts...),
		state: movietable.NewState(),
	}
}

// State returns a copy of the current table.
func (c *Console) State() movietable.State {
	return c.state.Clone()
}

// Run reads commands until quit, end of input, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.printf("%s", helpText)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("movies> ")
		if !c.in.Scan() {
			c.printf("\n")
			return c.in.Err()
		}
		err := c.Exec(ctx, c.in.Text())
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			c.printf("error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "add", "a":
		return c.add(ctx)
	case "edit", "e":
		row, err := rowArg(fields)
		if err != nil {
			return err
		}
		return c.apply(ctx, movietable.Event{Kind: movietable.EventEditRow, Row: row})
	case "remove", "rm":
		row, err := rowArg(fields)
		if err != nil {
			return err
		}
		return c.apply(ctx, movietable.Event{Kind: movietable.EventRemoveRow, Row: row})
	case "list", "ls":
		c.printf("%s\n", RenderTable(c.state))
		return nil
	case "help", "?":
		c.printf("%s", helpText)
		return nil
	case "quit", "exit", "q":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

// rowArg reads the 1-based row number shown in the table.
func rowArg(fields []string) (int, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("%s needs a row number", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row %q", fields[1])
	}
	return n - 1, nil
}

// add fills the form through the asker and submits it. The rating prompt
// repeats until it holds a whole number in range.
func (c *Console) add(ctx context.Context) error {
	title, ok, err := c.asker.Ask(ctx, edit.Prompt{
		Field:   edit.FieldTitle,
		Message: addTitleMessage,
		Default: c.state.Form.Title,
	})
	if err != nil || !ok {
		return err
	}

	var rating int
	for {
		raw, ok, err := c.asker.Ask(ctx, edit.Prompt{
			Field:   edit.FieldRating,
			Message: addRatingMessage,
			Default: strconv.Itoa(c.state.Form.Rating),
		})
		if err != nil || !ok {
			return err
		}
		if rating, err = domain.ParseRating(raw); err == nil && domain.ValidateRating(rating) {
			break
		}
	}

	return c.apply(ctx, movietable.Event{Kind: movietable.EventSubmit, Title: title, Rating: rating})
}

func (c *Console) apply(ctx context.Context, ev movietable.Event) error {
	next, m, err := c.ctrl.Dispatch(ctx, c.state, ev)
	if err != nil {
		if m.ChangesRows() {
			c.state = next
		}
		if errors.Is(err, movietable.ErrRowNotFound) {
			return fmt.Errorf("no row %d", ev.Row+1)
		}
		return err
	}
	c.state = next
	if msg, invalid := m.ValidityMessage(); invalid {
		c.printf("%s\n", msg)
		return nil
	}
	if m.ChangesRows() {
		c.printf("%s\n", RenderTable(c.state))
	}
	return nil
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}
