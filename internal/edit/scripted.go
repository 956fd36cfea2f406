package edit

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoAnswer is returned by Scripted when its answers run out.
var ErrNoAnswer = errors.New("edit: no scripted answer left")

// Answer is a prepared reply to a prompt.
type Answer struct {
	Text   string
	Cancel bool
}

// Reply returns an answer carrying text.
func Reply(text string) Answer { return Answer{Text: text} }

// Dismiss returns a cancelling answer.
func Dismiss() Answer { return Answer{Cancel: true} }

// Scripted answers prompts from a fixed queue, in order, and records every
// prompt it was shown.
type Scripted struct {
	mu      sync.Mutex
	answers []Answer
	asked   []Prompt
}

// NewScripted builds a Scripted asker.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

// Ask pops the next answer.
func (s *Scripted) Ask(ctx context.Context, p Prompt) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, p)
	if len(s.answers) == 0 {
		return "", false, ErrNoAnswer
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	if next.Cancel {
		return "", false, nil
	}
	return next.Text, true, nil
}

// Asked returns the prompts shown so far.
func (s *Scripted) Asked() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.asked))
	copy(out, s.asked)
	return out
}

// RejectedError reports that a one-shot answer failed validation and the
// prompt would have been shown again.
type RejectedError struct {
	Prompt Prompt
	Answer string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("edit: %s answer %q rejected: %s", e.Prompt.Field, e.Answer, e.Prompt.Message)
}

// OneShot answers each field at most once, for front ends that collect all
// answers up front (an HTML form, a JSON body). A field without an answer is
// treated as cancelled. Re-asking a field means its answer was invalid, which
// is reported as a *RejectedError.
type OneShot struct {
	answers map[Field]Answer
	used    map[Field]string
}

// NewOneShot builds a OneShot asker.
func NewOneShot(answers map[Field]Answer) *OneShot {
	return &OneShot{answers: answers, used: make(map[Field]string)}
}

// Ask returns the prepared answer for p.Field.
func (o *OneShot) Ask(ctx context.Context, p Prompt) (string, bool, error) {
	if prev, seen := o.used[p.Field]; seen {
		return "", false, &RejectedError{Prompt: p, Answer: prev}
	}
	a, ok := o.answers[p.Field]
	if !ok || a.Cancel {
		return "", false, nil
	}
	o.used[p.Field] = a.Text
	return a.Text, true, nil
}
