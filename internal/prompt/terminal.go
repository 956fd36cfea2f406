// Package prompt asks edit questions in the terminal, one bubbletea program
// per prompt.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Clark-Hu/movie-table/internal/edit"
)

var (
	messageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4D96FF"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
)

// Terminal implements edit.Asker with an inline text input.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithInput reads keys from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(t *Terminal) { t.in = r }
}

// WithOutput draws to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) { t.out = w }
}

// NewTerminal builds a Terminal asker.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ask shows p and blocks until the user confirms with enter or dismisses
// with esc or ctrl+c.
func (t *Terminal) Ask(ctx context.Context, p edit.Prompt) (string, bool, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}

	final, err := tea.NewProgram(newModel(p), opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", false, fmt.Errorf("prompt %s: %w", p.Field, err)
	}
	m, ok := final.(model)
	if !ok {
		return "", false, fmt.Errorf("prompt %s: unexpected model %T", p.Field, final)
	}
	return m.answer, m.confirmed, nil
}

type model struct {
	prompt    edit.Prompt
	input     textinput.Model
	answer    string
	confirmed bool
	done      bool
}

func newModel(p edit.Prompt) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.SetValue(p.Default)
	ti.Focus()
	return model{prompt: p, input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.answer = m.input.Value()
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n",
		messageStyle.Render(m.prompt.Message),
		m.input.View(),
		hintStyle.Render("enter to confirm, esc to cancel"))
}
