package sanitize

import (
	"unicode/utf8"

	"github.com/roach88/bingo/internal/catalog"
)

// Catalog returns a sanitized copy of c. It never fails; it narrows.
//
// Prompts that sanitize below MinPromptLength are dropped, categories
// whose names sanitize to empty or that are left without prompts are
// dropped, and categories whose sanitized names collide are merged into
// the first. The result may fall below the board minimum, so callers must
// re-check totals.
func Catalog(c *catalog.Catalog) *catalog.Catalog {
	out := &catalog.Catalog{}
	if c == nil {
		return out
	}
	index := make(map[string]int)
	for _, cat := range c.Categories {
		name := Category(cat.Name)
		if name == "" {
			continue
		}
		var kept []string
		for _, p := range cat.Prompts {
			sp := Prompt(p)
			if utf8.RuneCountInString(sp) < MinPromptLength {
				continue
			}
			kept = append(kept, sp)
		}
		if len(kept) == 0 {
			continue
		}
		if i, ok := index[name]; ok {
			out.Categories[i].Prompts = append(out.Categories[i].Prompts, kept...)
			continue
		}
		index[name] = len(out.Categories)
		out.Categories = append(out.Categories, catalog.Category{Name: name, Prompts: kept})
	}
	return out
}
