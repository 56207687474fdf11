package catalog

// Limits enforced on uploaded catalogs. Lengths are counted in code points.
const (
	MaxFileSize = 1 << 20 // 1 MiB

	MinCategories = 1
	MaxCategories = 50

	MinCategoryNameLen = 1
	MaxCategoryNameLen = 50

	MinPromptLen = 3
	MaxPromptLen = 200

	MaxTotalPrompts = 1000

	// FileExtension is the only accepted upload extension.
	FileExtension = ".json"
)

// Board sizing shared with the generator.
const (
	BoardCells = 25
	// PromptsWithFreeSpace is the content cell count when the center cell
	// is reserved.
	PromptsWithFreeSpace = BoardCells - 1
)

// Needed returns how many prompts a board requires.
func Needed(includeFreeSpace bool) int {
	if includeFreeSpace {
		return PromptsWithFreeSpace
	}
	return BoardCells
}

// Category is a named, ordered prompt list.
type Category struct {
	Name    string   `json:"name"`
	Prompts []string `json:"prompts"`
}

// Catalog is the ordered set of categories parsed from an upload.
//
// Category order is the order of keys in the source document; the
// generator's remainder distribution depends on it.
type Catalog struct {
	Categories []Category `json:"categories"`
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Categories)
}

// TotalPrompts sums prompt counts across categories.
func (c *Catalog) TotalPrompts() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Prompts)
	}
	return n
}

// Names returns the category names in order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		names[i] = cat.Name
	}
	return names
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}
	out := &Catalog{Categories: make([]Category, len(c.Categories))}
	for i, cat := range c.Categories {
		out.Categories[i] = Category{
			Name:    cat.Name,
			Prompts: append([]string(nil), cat.Prompts...),
		}
	}
	return out
}
