package render

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/sanitize"
)

// Theme styles the terminal grid.
type Theme struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Instructions lipgloss.Style
	Cell         lipgloss.Style
	Free         lipgloss.Style
}

func DefaultTheme() Theme {
	cell := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Align(lipgloss.Center, lipgloss.Center)
	return Theme{
		Title:        lipgloss.NewStyle().Bold(true),
		Subtitle:     lipgloss.NewStyle().Faint(true),
		Instructions: lipgloss.NewStyle().Italic(true),
		Cell:         cell,
		Free: cell.
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("212")),
	}
}

// Grid sizing. MinCellWidth is the narrowest usable cell, borders and
// padding excluded.
const (
	MinCellWidth = 8
	CellLines    = 3
	cellChrome   = 4 // two border columns plus two padding columns
)

// Text renders the board as a bordered 5x5 grid fitted to width columns.
// Long prompts wrap and are clipped to CellLines lines.
func Text(b *generator.Board, h sanitize.Header, width int) string {
	return TextWithTheme(b, h, width, DefaultTheme())
}

// TextWithTheme is Text with an explicit theme.
func TextWithTheme(b *generator.Board, h sanitize.Header, width int, t Theme) string {
	if b == nil {
		return ""
	}
	inner := width/generator.Size - cellChrome
	if inner < MinCellWidth {
		inner = MinCellWidth
	}

	rows := make([]string, 0, generator.Size)
	for r := 0; r < generator.Size; r++ {
		cells := make([]string, 0, generator.Size)
		for _, c := range b.Row(r) {
			style := t.Cell
			if c.Free {
				style = t.Free
			}
			body := lipgloss.NewStyle().
				Width(inner).
				Height(CellLines).
				MaxHeight(CellLines).
				Align(lipgloss.Center, lipgloss.Center).
				Render(html.UnescapeString(c.Label()))
			cells = append(cells, style.Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)

	var head []string
	if h.Title != "" {
		head = append(head, t.Title.Render(html.UnescapeString(h.Title)))
	}
	if h.Subtitle != "" {
		head = append(head, t.Subtitle.Render(html.UnescapeString(h.Subtitle)))
	}
	if h.Instructions != "" {
		head = append(head, t.Instructions.Render(html.UnescapeString(h.Instructions)))
	}
	if len(head) == 0 {
		return grid
	}
	gw := lipgloss.Width(grid)
	centered := lipgloss.NewStyle().Width(gw).Align(lipgloss.Center)
	for i, line := range head {
		head[i] = centered.Render(line)
	}
	return strings.Join(head, "\n") + "\n\n" + grid
}
