package httpserver

import (
	"errors"
	"net/http"

	"github.com/Clark-Hu/movie-table/internal/domain"
	"github.com/Clark-Hu/movie-table/internal/edit"
	"github.com/Clark-Hu/movie-table/internal/movietable"
)

type rowRequest struct {
	Title  string `json:"title"`
	Rating *int   `json:"rating"`
}

type editRequest struct {
	Title  *string `json:"title"`
	Rating *string `json:"rating"`
}

type rowResponse struct {
	Index  int      `json:"index"`
	Title  string   `json:"title"`
	Rating int      `json:"rating"`
	Stars  []string `json:"stars"`
}

type opResponse struct {
	Kind    movietable.OpKind `json:"kind"`
	Row     int               `json:"row"`
	Title   string            `json:"title,omitempty"`
	Rating  *int              `json:"rating,omitempty"`
	Stars   []string          `json:"stars,omitempty"`
	Message string            `json:"message,omitempty"`
}

type tableResponse struct {
	Rows []rowResponse    `json:"rows"`
	Form *movietable.Form `json:"form,omitempty"`
	Ops  []opResponse     `json:"ops,omitempty"`
}

func starNames(d domain.StarDisplay) []string {
	out := make([]string, 0, len(d.Slots))
	for _, slot := range d.Slots {
		out = append(out, slot.String())
	}
	return out
}

func toTableResponse(state movietable.State, m movietable.Mutation) tableResponse {
	resp := tableResponse{Rows: make([]rowResponse, 0, len(state.Rows))}
	for i, row := range state.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			Index:  i,
			Title:  row.Title,
			Rating: row.Rating,
			Stars:  starNames(state.Stars(i)),
		})
	}
	for _, op := range m.Ops {
		out := opResponse{Kind: op.Kind, Row: op.Row, Title: op.Title, Message: op.Message}
		switch op.Kind {
		case movietable.OpAppendRow, movietable.OpReplaceRating:
			rating := op.Rating
			out.Rating = &rating
			out.Stars = starNames(op.Stars)
		case movietable.OpResetForm:
			rating := op.Rating
			out.Rating = &rating
		}
		resp.Ops = append(resp.Ops, out)
	}
	return resp
}

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	state, err := s.currentState(w, r)
	if err != nil {
		s.logger.Printf("list rows error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}
	s.respondJSON(w, http.StatusOK, toTableResponse(state, movietable.Mutation{}))
}

func (s *Server) handleCreateRow(w http.ResponseWriter, r *http.Request) {
	var req rowRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	rating := domain.DefaultRating
	if req.Rating != nil {
		rating = *req.Rating
	}
	if !domain.ValidateRating(rating) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must be between 0 and 10")
		return
	}

	ev := movietable.Event{Kind: movietable.EventSubmit, Title: req.Title, Rating: rating}
	next, m, err := s.dispatch(w, r, s.ctrl, ev)
	if err != nil {
		s.logger.Printf("create row error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add movie")
		return
	}
	if msg, invalid := m.ValidityMessage(); invalid {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: msg,
			Details: map[string]string{"field": string(edit.FieldTitle)},
		})
		return
	}
	resp := toTableResponse(next, m)
	resp.Form = &next.Form
	s.respondJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleEditRow(w http.ResponseWriter, r *http.Request) {
	row, err := decodeRowParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	var req editRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	answers := make(map[edit.Field]edit.Answer)
	if req.Title != nil {
		answers[edit.FieldTitle] = edit.Reply(*req.Title)
	}
	if req.Rating != nil {
		answers[edit.FieldRating] = edit.Reply(*req.Rating)
	}

	ctrl := s.ctrl.WithAsker(edit.NewOneShot(answers))
	next, m, err := s.dispatch(w, r, ctrl, movietable.Event{Kind: movietable.EventEditRow, Row: row})
	if err != nil {
		var rejected *edit.RejectedError
		switch {
		case errors.Is(err, movietable.ErrRowNotFound):
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		case errors.As(err, &rejected):
			s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: rejected.Prompt.Message,
				Details: map[string]string{"field": string(rejected.Prompt.Field)},
			})
		default:
			s.logger.Printf("edit row error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to edit movie")
		}
		return
	}
	s.respondJSON(w, http.StatusOK, toTableResponse(next, m))
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	row, err := decodeRowParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	next, m, err := s.dispatch(w, r, s.ctrl, movietable.Event{Kind: movietable.EventRemoveRow, Row: row})
	if err != nil {
		if errors.Is(err, movietable.ErrRowNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("remove row error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toTableResponse(next, m))
}

// handleEndSession drops the caller's rows, the equivalent of unloading the page.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.repo.Rows.Delete(r.Context(), id); err != nil {
		s.logger.Printf("end session error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
