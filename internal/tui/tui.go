// Package tui is the interactive board: r recreates, f toggles the free
// space, e exports and q quits.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/render"
	"github.com/roach88/bingo/internal/session"
)

// ExportFunc exports the session's current board and returns the written
// path.
type ExportFunc func(ctx context.Context) (string, error)

type Deps struct {
	Session *session.Session
	Export  ExportFunc
}

type theme struct {
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Help:   lipgloss.NewStyle().Faint(true),
	}
}

const defaultWidth = 100

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model.
type Model struct {
	deps  Deps
	theme theme

	width     int
	status    string
	err       error
	exporting bool
}

// Run starts the program and blocks until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(New(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func New(deps Deps) Model {
	return Model{deps: deps, theme: defaultTheme(), width: defaultWidth}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.err = fmt.Errorf("export: %w", msg.err)
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = "Saved " + msg.path
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "r":
			_, err := m.deps.Session.Recreate()
			m.setResult(err, fmt.Sprintf("New board (version %d)", m.deps.Session.Version()))
			return m, nil

		case "f":
			_, err := m.deps.Session.ToggleFreeSpace()
			state := "off"
			if m.deps.Session.FreeSpace() {
				state = "on"
			}
			m.setResult(err, "Free space "+state)
			return m, nil

		case "e":
			if m.exporting {
				return m, nil
			}
			if m.deps.Export == nil {
				m.err = errors.New("export is not configured")
				return m, nil
			}
			m.exporting = true
			m.err = nil
			m.status = "Exporting..."
			export := m.deps.Export
			return m, func() tea.Msg {
				path, err := export(context.Background())
				return exportDoneMsg{path: path, err: err}
			}
		}
	}
	return m, nil
}

func (m *Model) setResult(err error, ok string) {
	if err != nil {
		m.err = err
		m.status = ""
		return
	}
	m.err = nil
	m.status = ok
}

func (m Model) View() string {
	s := m.deps.Session
	out := render.Text(s.Board(), s.Header(), m.width) + "\n\n"

	switch {
	case m.err != nil:
		out += m.theme.Error.Render(errorText(m.err)) + "\n"
	case m.status != "":
		out += m.theme.Status.Render(m.status) + "\n"
	}
	return out + m.theme.Help.Render("r recreate • f free space • e export • q quit")
}

// errorText prefers the structured report for validation errors.
func errorText(err error) string {
	var ce *catalog.Error
	if errors.As(err, &ce) {
		return ce.Report()
	}
	return err.Error()
}
