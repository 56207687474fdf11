package catalog

import "fmt"

// Thresholds above which an upload is accepted but flagged as slow to work
// with.
const (
	LargeFileWarnBytes = 512 * 1024
	LargeCatalogWarn   = 500
)

// Warning is a non-fatal finding surfaced next to a generated board.
type Warning struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Warning kinds.
const (
	WarnDuplicate   = "duplicate"
	WarnPerformance = "performance"
)

// PerformanceWarnings flags very large files and catalogs.
func PerformanceWarnings(size int64, c *Catalog) []Warning {
	var out []Warning
	if size > LargeFileWarnBytes {
		out = append(out, Warning{
			Kind:    WarnPerformance,
			Message: fmt.Sprintf("the file is %d KB; large files take longer to process", size/1024),
		})
	}
	if n := c.TotalPrompts(); n > LargeCatalogWarn {
		out = append(out, Warning{
			Kind:    WarnPerformance,
			Message: fmt.Sprintf("the catalog has %d prompts; only 25 appear on a board", n),
		})
	}
	return out
}

// DuplicateWarnings converts duplicates to warnings.
func DuplicateWarnings(dups []Duplicate) []Warning {
	out := make([]Warning, 0, len(dups))
	for _, d := range dups {
		out = append(out, Warning{
			Kind:    WarnDuplicate,
			Message: fmt.Sprintf("%q appears %d times (in %v)", d.Prompt, d.Count, d.Categories),
		})
	}
	return out
}
