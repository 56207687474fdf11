package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/sanitize"
)

// testBoard fills cells with "Prompt N" in order, with the free cell in
// the center.
func testBoard() *generator.Board {
	b := &generator.Board{ID: "test-board", FreeSpace: true}
	n := 1
	for i := range b.Cells {
		if i == generator.FreeIndex {
			b.Cells[i] = generator.Cell{Free: true}
			continue
		}
		b.Cells[i] = generator.Cell{Prompt: fmt.Sprintf("Prompt %d", n)}
		n++
	}
	b.Cells[0].Prompt = sanitize.Prompt("<b>bold</b> move")
	b.Cells[1].Prompt = sanitize.Prompt("Has a dog & a cat")
	return b
}

func testHeader() sanitize.Header {
	h := sanitize.DefaultHeader()
	h.Subtitle = "Team & Friends"
	return sanitize.SanitizeHeader(h)
}

func TestHTML_Golden(t *testing.T) {
	out, err := HTML(testBoard(), testHeader())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "board", out)
}

func TestHTML_Cells(t *testing.T) {
	out, err := HTML(testBoard(), testHeader())
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 25, strings.Count(doc, "<td "))
	assert.Equal(t, 1, strings.Count(doc, `class="cell free"`))
	assert.Equal(t, 5, strings.Count(doc, "<tr>"))
	assert.NotContains(t, doc, "<b>bold")
	assert.NotContains(t, doc, "&amp;lt;", "escaped text is not escaped twice")
}

func TestHTML_NoFreeSpace(t *testing.T) {
	b := testBoard()
	b.FreeSpace = false
	b.Cells[generator.FreeIndex] = generator.Cell{Prompt: "Prompt 25"}
	out, err := HTML(b, sanitize.Header{Title: "BINGO"})
	require.NoError(t, err)
	doc := string(out)
	assert.NotContains(t, doc, "cell free")
	assert.NotContains(t, doc, "<h2>")
	assert.NotContains(t, doc, "instructions\">")
}

func TestHTML_NilBoard(t *testing.T) {
	_, err := HTML(nil, sanitize.DefaultHeader())
	assert.Error(t, err)
}

func TestText_Grid(t *testing.T) {
	out := Text(testBoard(), sanitize.Header{}, 100)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, generator.Size*(CellLines+2))
	for _, l := range lines {
		assert.Equal(t, 100, lipgloss.Width(l))
	}
	assert.Contains(t, out, "FREE")
	assert.Contains(t, out, "Prompt 24")
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "&lt;", "terminal output shows plain text")
}

func TestText_Header(t *testing.T) {
	out := Text(testBoard(), testHeader(), 100)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "BINGO"))
	assert.Contains(t, out, "Team & Friends")
	assert.NotContains(t, out, "&amp;")
}

func TestText_NarrowWidthUsesMinimumCells(t *testing.T) {
	out := Text(testBoard(), sanitize.Header{}, 10)
	first := strings.Split(out, "\n")[0]
	assert.Equal(t, generator.Size*(MinCellWidth+cellChrome), lipgloss.Width(first))
}

func TestText_NilBoard(t *testing.T) {
	assert.Empty(t, Text(nil, sanitize.DefaultHeader(), 80))
}
