package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/export"
	"github.com/roach88/bingo/internal/tui"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Board BoardOptions
	Type  string
	Dir   string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [catalog.json]",
		Short: "Browse boards interactively",
		Long: `Open a full-screen board.

Keys:
  r  new board from the same catalog
  f  toggle the free space
  e  export the current board
  q  quit`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runPlay(opts, path, cmd)
		},
	}
	opts.Board.register(cmd)
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "export file type: pdf, png or html (default from config)")
	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "", "export directory (default from config)")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	if err := opts.load(cmd); err != nil {
		return err
	}
	f := opts.formatter(cmd)

	s, _, err := prepareSession(opts.RootOptions, cmd, opts.Board, f, path)
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

	deps := tui.Deps{
		Session: s,
		Export:  exportFunc(s, newExporter(opts.Config, opts.RootOptions), dir, "", format),
	}
	if err := tui.Run(deps); err != nil {
		return WrapExitError(ExitCommandError, "terminal UI failed", err)
	}
	return nil
}
