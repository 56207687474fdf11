package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/catalog"
)

// ValidationResult is the validate command's payload.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	File       string            `json:"file"`
	Categories []CategorySummary `json:"categories"`
	Prompts    int               `json:"prompts"`
	Warnings   []catalog.Warning `json:"warnings,omitempty"`
}

// CategorySummary is one category after sanitization.
type CategorySummary struct {
	Name    string `json:"name"`
	Prompts int    `json:"prompts"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var board BoardOptions

	cmd := &cobra.Command{
		Use:   "validate <catalog.json>",
		Short: "Check a catalog without printing a board",
		Long: `Run a catalog through the full upload pipeline: file checks, JSON
parsing, structure and length limits, duplicate detection, sanitization
and the prompt count re-check.

Every problem found is listed with a suggestion. Duplicates are warnings
unless --strict is set.

Exit codes:
  0 - Catalog accepted
  1 - Catalog rejected
  2 - Command error (unreadable file, bad config)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, board, args[0], cmd)
		},
	}
	board.register(cmd)

	return cmd
}

func runValidate(opts *RootOptions, board BoardOptions, path string, cmd *cobra.Command) error {
	if err := opts.load(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	s, err := newSession(opts, cmd, board)
	if err != nil {
		return err
	}
	res, err := upload(f, s, path)
	if err != nil {
		return err
	}

	c := s.Catalog()
	result := ValidationResult{
		Valid:    true,
		File:     filepath.Base(path),
		Prompts:  c.TotalPrompts(),
		Warnings: res.Warnings,
	}
	for _, cat := range c.Categories {
		result.Categories = append(result.Categories, CategorySummary{Name: cat.Name, Prompts: len(cat.Prompts)})
	}

	text := fmt.Sprintf("✓ %s: %d categories, %d prompts", result.File, len(result.Categories), result.Prompts)
	if opts.Verbose {
		for _, cs := range result.Categories {
			text += fmt.Sprintf("\n  %s (%d)", cs.Name, cs.Prompts)
		}
	}
	text += warningLines(res.Warnings)
	return f.Success(result, text)
}
