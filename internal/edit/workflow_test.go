package edit

import (
	"context"
	"errors"
	"testing"

	"github.com/Clark-Hu/movie-table/internal/domain"
)

var row = domain.Movie{Title: "Alien", Rating: 8}

func TestRunAcceptsBothFields(t *testing.T) {
	asker := NewScripted(Reply("Aliens"), Reply("9"))
	res, err := Run(context.Background(), asker, row)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if res.Title == nil || *res.Title != "Aliens" {
		t.Fatalf("title = %v, want Aliens", res.Title)
	}
	if res.Rating == nil || *res.Rating != 9 {
		t.Fatalf("rating = %v, want 9", res.Rating)
	}

	asked := asker.Asked()
	if len(asked) != 2 {
		t.Fatalf("asked %d prompts, want 2", len(asked))
	}
	if asked[0].Field != FieldTitle || asked[0].Default != "Alien" || asked[0].Message != TitlePromptMessage {
		t.Fatalf("unexpected title prompt: %+v", asked[0])
	}
	if asked[1].Field != FieldRating || asked[1].Default != "8" || asked[1].Message != RatingPromptMessage {
		t.Fatalf("unexpected rating prompt: %+v", asked[1])
	}
}

func TestRunRepromptsUntilValid(t *testing.T) {
	asker := NewScripted(
		Reply(""), Reply("a"), Reply(" Up "),
		Reply("11"), Reply("-1"), Reply("7.5"), Reply("abc"), Reply(""), Reply("4"),
	)
	res, err := Run(context.Background(), asker, row)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if res.Title == nil || *res.Title != " Up " {
		t.Fatalf("title = %v, want raw accepted answer", res.Title)
	}
	if res.Rating == nil || *res.Rating != 4 {
		t.Fatalf("rating = %v, want 4", res.Rating)
	}
	if got := len(asker.Asked()); got != 9 {
		t.Fatalf("asked %d prompts, want 9", got)
	}
}

func TestRunCancelTitleStillAsksRating(t *testing.T) {
	asker := NewScripted(Dismiss(), Reply("2"))
	res, err := Run(context.Background(), asker, row)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if res.Title != nil {
		t.Fatalf("title should be cancelled, got %q", *res.Title)
	}
	if res.Rating == nil || *res.Rating != 2 {
		t.Fatalf("rating = %v, want 2", res.Rating)
	}
}

func TestRunCancelRating(t *testing.T) {
	asker := NewScripted(Reply("Heat"), Reply("12"), Dismiss())
	res, err := Run(context.Background(), asker, row)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if res.Title == nil || *res.Title != "Heat" {
		t.Fatalf("title = %v, want Heat", res.Title)
	}
	if res.Rating != nil {
		t.Fatalf("rating should be cancelled, got %d", *res.Rating)
	}
	if !res.Changed() {
		t.Fatalf("Changed() = false, want true")
	}
}

func TestRunCancelBoth(t *testing.T) {
	res, err := Run(context.Background(), NewScripted(Dismiss(), Dismiss()), row)
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if res.Changed() {
		t.Fatalf("Changed() = true, want false")
	}
}

func TestRunPropagatesAskerError(t *testing.T) {
	_, err := Run(context.Background(), NewScripted(Reply("x")), row)
	if !errors.Is(err, ErrNoAnswer) {
		t.Fatalf("Run() error = %v, want ErrNoAnswer", err)
	}
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, NewScripted(Reply("Heat"), Reply("5")), row)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestOneShot(t *testing.T) {
	tests := []struct {
		name       string
		answers    map[Field]Answer
		wantTitle  *string
		wantRating *int
		wantField  Field
	}{
		{
			name:       "both valid",
			answers:    map[Field]Answer{FieldTitle: Reply("Heat"), FieldRating: Reply("6")},
			wantTitle:  ptr("Heat"),
			wantRating: ptr(6),
		},
		{
			name:       "missing fields cancel",
			answers:    map[Field]Answer{},
			wantTitle:  nil,
			wantRating: nil,
		},
		{
			name:       "explicit cancel",
			answers:    map[Field]Answer{FieldTitle: Dismiss(), FieldRating: Reply("3")},
			wantRating: ptr(3),
		},
		{
			name:      "invalid title rejected",
			answers:   map[Field]Answer{FieldTitle: Reply("x")},
			wantField: FieldTitle,
		},
		{
			name:      "invalid rating rejected",
			answers:   map[Field]Answer{FieldTitle: Reply("Heat"), FieldRating: Reply("7.5")},
			wantField: FieldRating,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(context.Background(), NewOneShot(tt.answers), row)
			if tt.wantField != "" {
				var rejected *RejectedError
				if !errors.As(err, &rejected) {
					t.Fatalf("error = %v, want *RejectedError", err)
				}
				if rejected.Prompt.Field != tt.wantField {
					t.Fatalf("rejected field = %s, want %s", rejected.Prompt.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (res.Title == nil) != (tt.wantTitle == nil) || (res.Title != nil && *res.Title != *tt.wantTitle) {
				t.Fatalf("title = %v, want %v", res.Title, tt.wantTitle)
			}
			if (res.Rating == nil) != (tt.wantRating == nil) || (res.Rating != nil && *res.Rating != *tt.wantRating) {
				t.Fatalf("rating = %v, want %v", res.Rating, tt.wantRating)
			}
		})
	}
}

func TestRunKeepsTitleWhenRatingRejected(t *testing.T) {
	asker := NewOneShot(map[Field]Answer{FieldTitle: Reply("Aliens"), FieldRating: Reply("11")})
	res, err := Run(context.Background(), asker, row)
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("error = %v, want *RejectedError", err)
	}
	if res.Title == nil || *res.Title != "Aliens" {
		t.Fatalf("title = %v, want Aliens kept alongside the error", res.Title)
	}
	if res.Rating != nil {
		t.Fatalf("rating = %d, want none", *res.Rating)
	}
}

func ptr[T any](v T) *T { return &v }
