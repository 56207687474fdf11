package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Duplicate describes one prompt text found more than once.
type Duplicate struct {
	Prompt     string   `json:"prompt"`
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

// duplicateKey folds case and trims, so "Has a Dog " and "has a dog"
// collide.
func duplicateKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// CheckDuplicates scans the whole catalog as one namespace, within and
// across categories. It never fails; the result is a list of warnings in
// order of first appearance.
func CheckDuplicates(c *Catalog) []Duplicate {
	if c == nil {
		return nil
	}
	index := make(map[string]int)
	var dups []Duplicate
	for _, cat := range c.Categories {
		for _, p := range cat.Prompts {
			key := duplicateKey(p)
			i, ok := index[key]
			if !ok {
				index[key] = len(dups)
				dups = append(dups, Duplicate{
					Prompt:     strings.TrimSpace(p),
					Categories: []string{cat.Name},
					Count:      1,
				})
				continue
			}
			d := &dups[i]
			d.Count++
			if !contains(d.Categories, cat.Name) {
				d.Categories = append(d.Categories, cat.Name)
			}
		}
	}

	out := dups[:0]
	for _, d := range dups {
		if d.Count > 1 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StrictDuplicates turns a non-empty duplicate list into a fatal error.
func StrictDuplicates(dups []Duplicate) error {
	if len(dups) == 0 {
		return nil
	}
	issues := make([]Issue, 0, len(dups))
	for _, d := range dups {
		issues = append(issues, Issue{
			Category: strings.Join(d.Categories, ", "),
			Index:    -1,
			Snippet:  snippet(d.Prompt),
			Problem:  fmt.Sprintf("appears %d times", d.Count),
		})
	}
	return issuesError(KindDuplicatePrompts,
		fmt.Sprintf("%d prompt(s) appear more than once", len(dups)),
		"Remove or reword the repeated prompts, or turn off strict mode.",
		issues)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
