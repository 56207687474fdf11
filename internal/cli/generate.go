package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/render"
	"github.com/roach88/bingo/internal/sanitize"
	"github.com/roach88/bingo/internal/session"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Board BoardOptions
	Width int
}

// BoardView is the JSON shape of a generated board.
type BoardView struct {
	ID        string            `json:"id"`
	Version   int               `json:"version"`
	Preview   bool              `json:"preview"`
	FreeSpace bool              `json:"free_space"`
	Header    sanitize.Header   `json:"header"`
	Rows      [][]string        `json:"rows"`
	Filename  string            `json:"filename"`
	Warnings  []catalog.Warning `json:"warnings,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [catalog.json]",
		Short: "Print a board to the terminal",
		Long: `Generate one board and print it as a grid, or as JSON with --format json.

Without a catalog the built-in sample is used.

Examples:
  bingo generate team.json
  bingo generate team.json --seed 42 --no-free-space
  bingo generate --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runGenerate(opts, path, cmd)
		},
	}
	opts.Board.register(cmd)
	cmd.Flags().IntVarP(&opts.Width, "width", "w", 100, "grid width in columns")

	return cmd
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	if err := opts.load(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	s, warnings, err := prepareSession(opts.RootOptions, cmd, opts.Board, f, path)
	if err != nil {
		return err
	}

	b, h := s.Board(), s.Header()
	view := newBoardView(s, b, h, warnings)
	text := render.Text(b, h, opts.Width) + warningLines(warnings)
	return f.Success(view, text)
}

func newBoardView(s *session.Session, b *generator.Board, h sanitize.Header, warnings []catalog.Warning) BoardView {
	view := BoardView{
		ID:        b.ID,
		Version:   s.Version(),
		Preview:   s.Preview(),
		FreeSpace: b.FreeSpace,
		Header:    h,
		Rows:      make([][]string, 0, generator.Size),
		Filename:  s.ExportFilename(time.Now().UTC()),
		Warnings:  warnings,
	}
	for r := 0; r < generator.Size; r++ {
		row := make([]string, 0, generator.Size)
		for _, c := range b.Row(r) {
			row = append(row, c.Label())
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}
