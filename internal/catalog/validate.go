package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"cuelang.org/go/cue"
)

// FileMeta describes an upload before its content is read.
type FileMeta struct {
	Name string
	Size int64
}

// ValidateRawFile applies the cheap file-level checks.
func ValidateRawFile(meta FileMeta) error {
	if strings.TrimSpace(meta.Name) == "" {
		return newError(KindNoFile,
			"Choose a .json file containing your categories and prompts.",
			"no file was provided")
	}
	if !strings.EqualFold(filepath.Ext(meta.Name), FileExtension) {
		return newError(KindInvalidFileType,
			"Save your prompts as a .json file and upload that instead.",
			"%q is not a %s file", meta.Name, FileExtension)
	}
	if meta.Size <= 0 {
		return newError(KindEmptyFile,
			"The file has no content; add your categories and prompts.",
			"%q is empty", meta.Name)
	}
	return ValidateContentSize(meta.Name, meta.Size)
}

// ValidateContentSize rejects content over MaxFileSize. Upload calls it
// again on the bytes actually read, since the size reported up front may
// be stale.
func ValidateContentSize(name string, size int64) error {
	if size > MaxFileSize {
		e := newError(KindFileTooLarge,
			"Split the prompts across smaller files or remove unused categories.",
			"%q is %d bytes; the limit is %d bytes (1MB)", name, size, MaxFileSize)
		e.Details = map[string]any{"size": size, "limit": MaxFileSize}
		return e
	}
	return nil
}

// ValidateShape checks a parsed Document is a well-formed catalog and
// returns it in source order.
//
// Root type and category count fail fast. Everything else is collected so
// one upload reports every problem: category-level problems produce
// CategoryIssues, otherwise prompt-level problems produce PromptIssues.
func ValidateShape(doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, newError(KindInvalidStructure,
			`The file must contain an object like {"category": ["prompt"]}.`,
			"no document to validate")
	}
	v := doc.value
	if k := v.Kind(); k != cue.StructKind {
		e := newError(KindInvalidStructure,
			`The file must contain an object like {"category": ["prompt"]}, not a list or a single value.`,
			"expected an object of categories, found %s", kindName(k))
		e.Details = map[string]any{"found": kindName(k)}
		return nil, e
	}

	type field struct {
		name  string
		value cue.Value
	}
	var fields []field
	// JSON keys such as "#goals" become definition labels, which Fields
	// skips unless asked.
	iter, err := v.Fields(cue.Definitions(true), cue.Hidden(true))
	if err != nil {
		e := newError(KindInvalidStructure, "Check the file is a plain JSON object.", "cannot read categories")
		e.Err = err
		return nil, e
	}
	for iter.Next() {
		fields = append(fields, field{name: labelName(iter.Selector()), value: iter.Value()})
	}

	if len(fields) < MinCategories {
		return nil, newError(KindNoCategories,
			`Add at least one category, e.g. {"work": ["prompt one", "prompt two"]}.`,
			"the file has no categories")
	}
	if len(fields) > MaxCategories {
		e := newError(KindTooManyCategories,
			fmt.Sprintf("Merge related categories so there are at most %d.", MaxCategories),
			"the file has %d categories; the limit is %d", len(fields), MaxCategories)
		e.Details = map[string]any{"count": len(fields), "limit": MaxCategories}
		return nil, e
	}

	var catIssues, promptIssues []Issue
	out := &Catalog{Categories: make([]Category, 0, len(fields))}

	for _, f := range fields {
		if n := doc.repeats[f.name]; n > 1 {
			catIssues = append(catIssues, Issue{
				Category: f.name, Index: -1,
				Problem: fmt.Sprintf("appears %d times; combine its prompts into one list", n),
			})
		}
		name := strings.TrimSpace(f.name)
		switch n := utf8.RuneCountInString(name); {
		case n < MinCategoryNameLen:
			catIssues = append(catIssues, Issue{Category: f.name, Index: -1, Problem: "name must not be empty"})
		case n > MaxCategoryNameLen:
			catIssues = append(catIssues, Issue{
				Category: f.name, Index: -1, Snippet: snippet(name),
				Problem: fmt.Sprintf("name must be at most %d characters (has %d)", MaxCategoryNameLen, n),
			})
		}

		if k := f.value.Kind(); k != cue.ListKind {
			catIssues = append(catIssues, Issue{
				Category: f.name, Index: -1,
				Problem: fmt.Sprintf("must be an array of prompts, found %s", kindName(k)),
			})
			continue
		}

		list, err := f.value.List()
		if err != nil {
			catIssues = append(catIssues, Issue{Category: f.name, Index: -1, Problem: "must be an array of prompts"})
			continue
		}
		cat := Category{Name: f.name}
		for i := 0; list.Next(); i++ {
			pv := list.Value()
			if k := pv.Kind(); k != cue.StringKind {
				promptIssues = append(promptIssues, Issue{
					Category: f.name, Index: i,
					Problem: fmt.Sprintf("prompt must be a string, found %s", kindName(k)),
				})
				continue
			}
			s, _ := pv.String()
			trimmed := strings.TrimSpace(s)
			switch n := utf8.RuneCountInString(trimmed); {
			case n < MinPromptLen:
				promptIssues = append(promptIssues, Issue{
					Category: f.name, Index: i, Snippet: snippet(trimmed),
					Problem: fmt.Sprintf("prompt must be at least %d characters", MinPromptLen),
				})
			case n > MaxPromptLen:
				promptIssues = append(promptIssues, Issue{
					Category: f.name, Index: i, Snippet: snippet(trimmed),
					Problem: fmt.Sprintf("prompt must be at most %d characters (has %d)", MaxPromptLen, n),
				})
			default:
				cat.Prompts = append(cat.Prompts, s)
			}
		}
		if len(cat.Prompts) == 0 && !hasPromptIssue(promptIssues, f.name) {
			catIssues = append(catIssues, Issue{Category: f.name, Index: -1, Problem: "must contain at least one prompt"})
		}
		out.Categories = append(out.Categories, cat)
	}

	if len(catIssues) > 0 {
		e := issuesError(KindCategoryIssues,
			fmt.Sprintf("%d category problem(s) found", len(catIssues)),
			"Every category needs a name of 1-50 characters and a non-empty array of prompt strings.",
			catIssues)
		if len(promptIssues) > 0 {
			e.Details = map[string]any{"prompt_issues": len(promptIssues)}
		}
		return nil, e
	}
	if len(promptIssues) > 0 {
		return nil, issuesError(KindPromptIssues,
			fmt.Sprintf("%d prompt problem(s) found", len(promptIssues)),
			fmt.Sprintf("Each prompt must be text between %d and %d characters long.", MinPromptLen, MaxPromptLen),
			promptIssues)
	}
	return out, nil
}

// labelName returns a field's key as written in the JSON source.
// Unquoted panics on anything but string labels.
func labelName(sel cue.Selector) string {
	if sel.IsString() {
		return sel.Unquoted()
	}
	return sel.String()
}

func hasPromptIssue(issues []Issue, category string) bool {
	for _, is := range issues {
		if is.Category == category {
			return true
		}
	}
	return false
}

// ValidateTotals checks the catalog holds enough prompts for one board and
// not more than the upload ceiling. It must only run on a shape-valid
// catalog.
func ValidateTotals(c *Catalog, includeFreeSpace bool) error {
	total := c.TotalPrompts()
	needed := Needed(includeFreeSpace)
	if total < needed {
		e := newError(KindInsufficientPrompts,
			fmt.Sprintf("Add at least %d more prompt(s); a board needs %d.", needed-total, needed),
			"the catalog has %d prompt(s); a board needs at least %d", total, needed)
		e.Details = map[string]any{"total": total, "needed": needed}
		return e
	}
	if total > MaxTotalPrompts {
		e := newError(KindTooManyPrompts,
			fmt.Sprintf("Remove prompts so there are at most %d.", MaxTotalPrompts),
			"the catalog has %d prompts; the limit is %d", total, MaxTotalPrompts)
		e.Details = map[string]any{"total": total, "limit": MaxTotalPrompts}
		return e
	}
	return nil
}

const snippetLen = 40

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= snippetLen {
		return s
	}
	r := []rune(s)
	return string(r[:snippetLen]) + "..."
}
