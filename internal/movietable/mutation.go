package movietable

import "github.com/Clark-Hu/movie-table/internal/domain"

// OpKind names a single change a front end has to apply to its view.
type OpKind string

const (
	OpAppendRow        OpKind = "append_row"
	OpResetForm        OpKind = "reset_form"
	OpSetTitleValidity OpKind = "set_title_validity"
	OpReportValidity   OpKind = "report_validity"
	OpReplaceTitle     OpKind = "replace_title"
	OpReplaceRating    OpKind = "replace_rating"
	OpRemoveRow        OpKind = "remove_row"
)

// Op is one view change. Only the fields relevant to Kind are set; an empty
// Message on OpSetTitleValidity clears the field's custom validity.
type Op struct {
	Kind    OpKind             `json:"kind"`
	Row     int                `json:"row"`
	Title   string             `json:"title,omitempty"`
	Rating  int                `json:"rating"`
	Stars   domain.StarDisplay `json:"-"`
	Message string             `json:"message,omitempty"`
}

// Mutation is the ordered list of view changes produced by one event.
type Mutation struct {
	Ops []Op `json:"ops"`
}

func (m *Mutation) add(op Op) {
	m.Ops = append(m.Ops, op)
}

// Empty reports whether the event changed nothing.
func (m Mutation) Empty() bool {
	return len(m.Ops) == 0
}

// Has reports whether the mutation contains an op of the given kind.
func (m Mutation) Has(kind OpKind) bool {
	for _, op := range m.Ops {
		if op.Kind == kind {
			return true
		}
	}
	return false
}

// ChangesRows reports whether any op touches the table rows.
func (m Mutation) ChangesRows() bool {
	for _, op := range m.Ops {
		switch op.Kind {
		case OpAppendRow, OpReplaceTitle, OpReplaceRating, OpRemoveRow:
			return true
		}
	}
	return false
}

// ValidityMessage returns the message of the last validity report, if any.
func (m Mutation) ValidityMessage() (string, bool) {
	for i := len(m.Ops) - 1; i >= 0; i-- {
		if m.Ops[i].Kind == OpReportValidity {
			return m.Ops[i].Message, true
		}
	}
	return "", false
}
