package generator

import "github.com/roach88/bingo/internal/catalog"

// Grid geometry. Cells are indexed 0-24 row-major.
const (
	Size      = 5
	CellCount = catalog.BoardCells
	FreeIndex = 12
	FreeLabel = "FREE"
)

// Cell is one square of the board: a prompt or the free marker.
type Cell struct {
	Prompt string `json:"prompt,omitempty"`
	Free   bool   `json:"free,omitempty"`
}

// Label is what a renderer should print in the cell.
func (c Cell) Label() string {
	if c.Free {
		return FreeLabel
	}
	return c.Prompt
}

// Board is one generated layout. Boards are never mutated after
// generation; each generate or recreate produces a new one.
type Board struct {
	ID        string          `json:"id"`
	FreeSpace bool            `json:"free_space"`
	Cells     [CellCount]Cell `json:"cells"`
}

// Row returns the five cells of row r.
func (b *Board) Row(r int) []Cell {
	return b.Cells[r*Size : (r+1)*Size]
}

// Prompts returns the non-free cell values in index order.
func (b *Board) Prompts() []string {
	out := make([]string, 0, CellCount)
	for _, c := range b.Cells {
		if !c.Free {
			out = append(out, c.Prompt)
		}
	}
	return out
}
