package httpserver

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/edit"
	"github.com/Clark-Hu/movie-table/internal/movietable"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

type starView struct {
	Glyph  string
	Filled bool
}

type rowView struct {
	Index  int
	Title  string
	Rating int
	Stars  []starView
}

type pageData struct {
	Rows           []rowView
	Form           movietable.Form
	MinTitleLength int
	MinRating      int
	MaxRating      int
	TitleMessage   string
	TitlePrompt    string
	RatingPrompt   string
	EditRow        int
	EditError      string
}

func starViews(d domain.StarDisplay) []starView {
	out := make([]starView, 0, len(d.Slots))
	for _, slot := range d.Slots {
		out = append(out, starView{Glyph: slot.Glyph(), Filled: slot.Filled()})
	}
	return out
}

func newPageData(state movietable.State) pageData {
	rows := make([]rowView, 0, len(state.Rows))
	for i, row := range state.Rows {
		rows = append(rows, rowView{
			Index:  i,
			Title:  row.Title,
			Rating: row.Rating,
			Stars:  starViews(state.Stars(i)),
		})
	}
	return pageData{
		Rows:           rows,
		Form:           state.Form,
		MinTitleLength: domain.MinTitleLength,
		MinRating:      domain.MinRating,
		MaxRating:      domain.MaxRating,
		TitleMessage:   domain.TitleValidationMessage,
		TitlePrompt:    edit.TitlePromptMessage,
		RatingPrompt:   edit.RatingPromptMessage,
		EditRow:        -1,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Printf("render page: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state, err := s.currentState(w, r)
	if err != nil {
		s.logger.Printf("load page error: %v", err)
		http.Error(w, "Failed to load movies", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, http.StatusOK, newPageData(state))
}

// parseFormRating reads the range control. A missing value means the control
// was left at its default.
func parseFormRating(raw string) (int, error) {
	if raw == "" {
		return domain.DefaultRating, nil
	}
	rating, err := domain.ParseRating(raw)
	if err != nil {
		return 0, err
	}
	if !domain.ValidateRating(rating) {
		return 0, fmt.Errorf("rating %d outside %d-%d", rating, domain.MinRating, domain.MaxRating)
	}
	return rating, nil
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}
	rating, err := parseFormRating(r.PostForm.Get("rating"))
	if err != nil {
		http.Error(w, "Rating must be a whole number between 0 and 10", http.StatusBadRequest)
		return
	}

	ev := movietable.Event{Kind: movietable.EventSubmit, Title: r.PostForm.Get("title"), Rating: rating}
	next, m, err := s.dispatch(w, r, s.ctrl, ev)
	if err != nil {
		s.logger.Printf("submit movie error: %v", err)
		http.Error(w, "Failed to add movie", http.StatusInternalServerError)
		return
	}
	if _, invalid := m.ValidityMessage(); invalid {
		s.renderPage(w, http.StatusUnprocessableEntity, newPageData(next))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type titleValidityResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleValidateTitle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Unable to parse form")
		return
	}
	ev := movietable.Event{Kind: movietable.EventBlur, Title: r.PostForm.Get("title")}
	_, m, err := s.ctrl.Dispatch(r.Context(), movietable.NewState(), ev)
	if err != nil {
		s.logger.Printf("validate title error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate title")
		return
	}
	resp := titleValidityResponse{Valid: true}
	for _, op := range m.Ops {
		if op.Kind == movietable.OpSetTitleValidity && op.Message != "" {
			resp = titleValidityResponse{Valid: false, Message: op.Message}
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// formAnswers collects edit answers from a posted form. A field that is
// absent or flagged with cancel_<field> counts as a dismissed prompt.
func formAnswers(form url.Values) map[edit.Field]edit.Answer {
	answers := make(map[edit.Field]edit.Answer)
	for _, field := range []edit.Field{edit.FieldTitle, edit.FieldRating} {
		name := string(field)
		switch {
		case form.Get("cancel_"+name) != "":
			answers[field] = edit.Dismiss()
		case form.Has(name):
			answers[field] = edit.Reply(form.Get(name))
		}
	}
	return answers
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	row, err := decodeRowParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	ctrl := s.ctrl.WithAsker(edit.NewOneShot(formAnswers(r.PostForm)))
	state, _, err := s.dispatch(w, r, ctrl, movietable.Event{Kind: movietable.EventEditRow, Row: row})
	if err != nil {
		var rejected *edit.RejectedError
		switch {
		case errors.Is(err, movietable.ErrRowNotFound):
			http.Error(w, "Movie not found", http.StatusNotFound)
		case errors.As(err, &rejected):
			data := newPageData(state)
			data.EditRow = row
			data.EditError = rejected.Prompt.Message
			s.renderPage(w, http.StatusUnprocessableEntity, data)
		default:
			s.logger.Printf("edit movie error: %v", err)
			http.Error(w, "Failed to edit movie", http.StatusInternalServerError)
		}
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRemoveForm(w http.ResponseWriter, r *http.Request) {
	row, err := decodeRowParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, _, err := s.dispatch(w, r, s.ctrl, movietable.Event{Kind: movietable.EventRemoveRow, Row: row}); err != nil {
		if errors.Is(err, movietable.ErrRowNotFound) {
			http.Error(w, "Movie not found", http.StatusNotFound)
			return
		}
		s.logger.Printf("remove movie error: %v", err)
		http.Error(w, "Failed to remove movie", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
