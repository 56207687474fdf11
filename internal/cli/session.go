package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/ratelimit"
	"github.com/roach88/bingo/internal/session"
)

// BoardOptions are the board flags shared by generate, export and play.
// --no-free-space only overrides the config when it is passed.
type BoardOptions struct {
	Seed        uint64
	NoFreeSpace bool
	Strict      bool
	Title       string
}

func (b *BoardOptions) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&b.Seed, "seed", 0, "seed for a reproducible board (0 picks a random one)")
	cmd.Flags().BoolVar(&b.NoFreeSpace, "no-free-space", false, "fill the center cell with a prompt")
	cmd.Flags().BoolVar(&b.Strict, "strict", false, "reject catalogs with duplicate prompts")
	cmd.Flags().StringVar(&b.Title, "title", "", "card title (overrides the config)")
}

// newSession builds a session from the loaded config and board flags.
func newSession(opts *RootOptions, cmd *cobra.Command, b BoardOptions) (*session.Session, error) {
	cfg := opts.Config

	var genOpts []generator.Option
	if b.Seed != 0 {
		genOpts = append(genOpts, generator.WithRand(generator.NewSeededRand(b.Seed)))
	}
	freeSpace := cfg.Board.FreeSpace
	if cmd.Flags().Changed("no-free-space") {
		freeSpace = !b.NoFreeSpace
	}
	header := cfg.Header
	if b.Title != "" {
		header.Title = b.Title
	}

	s, err := session.New(session.Options{
		Generator: generator.New(genOpts...),
		Limiter:   ratelimit.New(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window),
		Logger:    opts.Logger,
		Header:    &header,
		FreeSpace: freeSpace,
		Strict:    cfg.Board.Strict || b.Strict,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to start session", err)
	}
	return s, nil
}

// upload loads path into s. A rejected catalog is reported through f and
// exits with ExitFailure; anything else is a command error.
func upload(f *OutputFormatter, s *session.Session, path string) (*session.Result, error) {
	f.VerboseLog("Loading catalog %s", path)
	res, err := s.UploadFile(path)
	if err == nil {
		return res, nil
	}

	var ce *catalog.Error
	if errors.As(err, &ce) {
		if outErr := f.CatalogError(ce); outErr != nil {
			return nil, outErr
		}
		return nil, WrapExitError(ExitFailure, fmt.Sprintf("%s rejected", filepath.Base(path)), err)
	}
	if outErr := f.Error(ErrCodeCommand, err.Error(), nil); outErr != nil {
		return nil, outErr
	}
	return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
}

// prepareSession creates a session and uploads path when one is given.
// An empty path keeps the built-in sample.
func prepareSession(opts *RootOptions, cmd *cobra.Command, b BoardOptions, f *OutputFormatter, path string) (*session.Session, []catalog.Warning, error) {
	s, err := newSession(opts, cmd, b)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return s, nil, nil
	}
	res, err := upload(f, s, path)
	if err != nil {
		return nil, nil, err
	}
	return s, res.Warnings, nil
}

// warningLines renders upload warnings for text output.
func warningLines(ws []catalog.Warning) string {
	var out string
	for _, w := range ws {
		out += fmt.Sprintf("\n! %s: %s", w.Kind, w.Message)
	}
	return out
}
