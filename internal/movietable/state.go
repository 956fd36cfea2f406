package movietable

import (
	"github.com/Clark-Hu/movie-table/internal/domain"
)

// Form is the add-movie form: a free-text title and a bounded rating control.
type Form struct {
	Title      string `json:"title"`
	Rating     int    `json:"rating"`
	TitleError string `json:"titleError,omitempty"`
}

// DefaultForm returns the form in its reset state.
func DefaultForm() Form {
	return Form{Rating: domain.DefaultRating}
}

// State is everything one page owns: the table rows and the form.
type State struct {
	Rows []domain.Movie `json:"rows"`
	Form Form           `json:"form"`
}

// NewState returns an empty table with a reset form.
func NewState() State {
	return State{Rows: []domain.Movie{}, Form: DefaultForm()}
}

// WithRows returns an empty-form state holding a copy of rows.
func WithRows(rows []domain.Movie) State {
	s := NewState()
	s.Rows = append(s.Rows, rows...)
	return s
}

// Clone returns a deep copy so handlers never alias their input.
func (s State) Clone() State {
	out := s
	out.Rows = make([]domain.Movie, len(s.Rows))
	copy(out.Rows, s.Rows)
	return out
}

// Stars renders the star display of row i.
func (s State) Stars(i int) domain.StarDisplay {
	return domain.RenderStars(s.Rows[i].Rating)
}
