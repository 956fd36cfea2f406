package edit

import (
	"context"
	"strconv"

	"github.com/Clark-Hu/movie-table/internal/domain"
)

// Field identifies which row attribute a prompt asks for.
type Field string

const (
	FieldTitle  Field = "title"
	FieldRating Field = "rating"
)

const (
	TitlePromptMessage  = "New Title (2 characters minimum)"
	RatingPromptMessage = "New Rating (0 - 10)"
)

// Prompt describes a single modal question.
type Prompt struct {
	Field   Field
	Message string
	Default string
}

// Asker blocks until the user answers or dismisses a prompt. A dismissed
// prompt returns ok == false, which is distinct from an empty answer.
type Asker interface {
	Ask(ctx context.Context, p Prompt) (answer string, ok bool, err error)
}

// AskerFunc adapts a function to the Asker interface.
type AskerFunc func(ctx context.Context, p Prompt) (string, bool, error)

// Ask calls f.
func (f AskerFunc) Ask(ctx context.Context, p Prompt) (string, bool, error) {
	return f(ctx, p)
}

// Result holds the accepted answers. A nil field means its prompt was cancelled.
type Result struct {
	Title  *string
	Rating *int
}

// Changed reports whether any field was accepted.
func (r Result) Changed() bool {
	return r.Title != nil || r.Rating != nil
}

// Run asks for a new title and then a new rating, re-asking each until the
// answer validates or the prompt is cancelled. Cancelling one prompt does not
// skip the other. On error the returned Result still holds the answers
// accepted before it, so a rejected rating does not discard a new title.
func Run(ctx context.Context, asker Asker, row domain.Movie) (Result, error) {
	var res Result

	titlePrompt := Prompt{Field: FieldTitle, Message: TitlePromptMessage, Default: row.Title}
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		answer, ok, err := asker.Ask(ctx, titlePrompt)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			break
		}
		if domain.ValidateTitle(answer) {
			title := answer
			res.Title = &title
			break
		}
	}

	ratingPrompt := Prompt{Field: FieldRating, Message: RatingPromptMessage, Default: strconv.Itoa(row.Rating)}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		answer, ok, err := asker.Ask(ctx, ratingPrompt)
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}
		rating, err := domain.ParseRating(answer)
		if err == nil && domain.ValidateRating(rating) {
			res.Rating = &rating
			break
		}
	}

	return res, nil
}
