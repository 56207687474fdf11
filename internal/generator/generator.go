// Package generator lays prompts from a catalog into a 5x5 bingo board.
//
// Selection is fair across categories and deterministic in shape: every
// category gets floor(needed/N) slots and the first needed%N categories in
// catalog order get one more. Which prompts fill those slots, and where
// they land on the grid, is random.
package generator

import (
	"fmt"

	"github.com/roach88/bingo/internal/catalog"
)

// Generator produces boards. It is safe to reuse; it holds no per-board
// state.
type Generator struct {
	rng Rand
	ids IDGenerator
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. Tests inject a seeded source.
func WithRand(r Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithIDs sets the board ID generator.
func WithIDs(ids IDGenerator) Option {
	return func(g *Generator) { g.ids = ids }
}

// New creates a Generator using math/rand/v2 and UUIDv7 board IDs unless
// overridden.
func New(opts ...Option) *Generator {
	g := &Generator{rng: globalRand{}, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a new board from c.
//
// The catalog is only read; shuffles operate on copies. It re-checks the
// catalog itself because recreate paths reach it without file validation.
func (g *Generator) Generate(c *catalog.Catalog, includeFreeSpace bool) (*Board, error) {
	if c.Len() == 0 {
		return nil, catalog.NewError(catalog.KindInvalidStructure,
			"Upload a catalog with at least one category before generating a board.",
			"no categories to draw prompts from")
	}
	needed := catalog.Needed(includeFreeSpace)
	if supply := distinctPrompts(c); supply < needed {
		e := catalog.NewError(catalog.KindInsufficientPrompts,
			fmt.Sprintf("Add at least %d more distinct prompt(s).", needed-supply),
			"only %d distinct prompt(s) available; a board needs %d", supply, needed)
		e.Details = map[string]any{"total": supply, "needed": needed}
		return nil, e
	}

	selected, err := g.selectPrompts(c, needed)
	if err != nil {
		return nil, err
	}
	g.shuffle(selected)

	b := &Board{ID: g.ids.Generate(), FreeSpace: includeFreeSpace}
	next := 0
	for i := range b.Cells {
		if includeFreeSpace && i == FreeIndex {
			b.Cells[i] = Cell{Free: true}
			continue
		}
		b.Cells[i] = Cell{Prompt: selected[next]}
		next++
	}
	return b, nil
}

// selectPrompts takes each category's share, then backfills from
// whatever is left until needed prompts are chosen. Prompt value is the
// uniqueness key.
func (g *Generator) selectPrompts(c *catalog.Catalog, needed int) ([]string, error) {
	n := c.Len()
	base, remainder := needed/n, needed%n

	selected := make([]string, 0, needed)
	used := make(map[string]bool, needed)

	for i, cat := range c.Categories {
		target := base
		if i < remainder {
			target++
		}
		pool := append([]string(nil), cat.Prompts...)
		g.shuffle(pool)
		taken := 0
		for _, p := range pool {
			if taken == target {
				break
			}
			if used[p] {
				continue
			}
			used[p] = true
			selected = append(selected, p)
			taken++
		}
	}

	for len(selected) < needed {
		pools := remaining(c, used)
		if len(pools) == 0 {
			return nil, catalog.NewError(catalog.KindInsufficientPrompts,
				"Add more prompts to the catalog.",
				"ran out of prompts after selecting %d of %d", len(selected), needed)
		}
		pool := pools[g.rng.IntN(len(pools))]
		p := pool[g.rng.IntN(len(pool))]
		used[p] = true
		selected = append(selected, p)
	}

	if len(selected) > needed {
		selected = selected[:needed]
	}
	return selected, nil
}

// remaining returns, per category that still has any, the prompts not
// yet used.
func remaining(c *catalog.Catalog, used map[string]bool) [][]string {
	var pools [][]string
	for _, cat := range c.Categories {
		var rest []string
		for _, p := range cat.Prompts {
			if !used[p] {
				rest = append(rest, p)
			}
		}
		if len(rest) > 0 {
			pools = append(pools, rest)
		}
	}
	return pools
}

func distinctPrompts(c *catalog.Catalog) int {
	seen := make(map[string]struct{}, c.TotalPrompts())
	for _, cat := range c.Categories {
		for _, p := range cat.Prompts {
			seen[p] = struct{}{}
		}
	}
	return len(seen)
}

// shuffle is an in-place Fisher-Yates permutation.
func (g *Generator) shuffle(s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
