package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/config"
	"github.com/roach88/bingo/internal/export"
	"github.com/roach88/bingo/internal/session"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Board BoardOptions
	Type  string
	Dir   string
	Name  string
}

// ExportResult is the export command's payload.
type ExportResult struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	BoardID string `json:"board_id"`
	Version int    `json:"version"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export [catalog.json]",
		Short: "Write a printable board as PDF, PNG or HTML",
		Long: `Generate a board and write it to disk.

PDF and PNG are rendered by headless Chromium; set export.browser_bin or
BINGO_BROWSER_BIN to use a local browser instead of a downloaded one.
HTML needs no browser.

Files are named {catalog}{-vN}{-preview}-{YYYY-MM-DD}.{ext} unless --name
is given.

Examples:
  bingo export team.json
  bingo export team.json --type png --dir out
  bingo export --type html --name sample`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(opts, path, cmd)
		},
	}
	opts.Board.register(cmd)
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "file type: pdf, png or html (default from config)")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "", "output directory (default from config)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "file name without extension")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	if err := opts.load(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	s, warnings, err := prepareSession(opts.RootOptions, cmd, opts.Board, f, path)
	if err != nil {
		return err
	}

	typ := opts.Type
	if typ == "" {
		typ = opts.Config.Export.Format
	}
	format, err := export.ParseFormat(typ)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --type", err)
	}
	dir := opts.Dir
	if dir == "" {
		dir = opts.Config.Export.Dir
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	exportFn := exportFunc(s, newExporter(opts.Config, opts.RootOptions), dir, opts.Name, format)
	written, err := exportFn(ctx)
	if err != nil {
		if outErr := f.Error(ErrCodeExport, err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	result := ExportResult{
		Path:    written,
		Type:    string(format),
		BoardID: s.Board().ID,
		Version: s.Version(),
	}
	return f.Success(result, fmt.Sprintf("✓ Saved %s", written)+warningLines(warnings))
}

func newExporter(cfg *config.Config, opts *RootOptions) *export.Exporter {
	return export.New(
		&export.RodRasterizer{Bin: cfg.Export.BrowserBin},
		export.WithLogger(opts.Logger),
		export.WithTimeout(cfg.Export.Timeout),
	)
}

// exportFunc binds an exporter to a session. The board and header are read
// at call time, so the play command exports whatever is on screen. An
// empty name uses the session's filename policy.
func exportFunc(s *session.Session, e *export.Exporter, dir, name string, format export.Format) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		filename := name
		if filename == "" {
			filename = s.ExportFilename(time.Now().UTC())
		}
		return e.Export(ctx, s.Board(), s.Header(), dir, filename, format)
	}
}
