// Package session owns the state behind one bingo card: the sanitized
// catalog, the current board, the header and the version counter.
//
// Upload runs the full pipeline; Recreate and the free-space setters only
// re-run the generator against the catalog already held. State changes
// are committed only when every step succeeds, so a failed upload leaves
// the previous board in place.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/roach88/bingo/internal/catalog"
	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/logging"
	"github.com/roach88/bingo/internal/ratelimit"
	"github.com/roach88/bingo/internal/sanitize"
)

// FallbackBaseName names exports when no file has been uploaded.
const FallbackBaseName = "bingo-card"

// ReadFunc returns the content of the file described by a FileMeta. It is
// only called after the file-level checks pass.
type ReadFunc func() ([]byte, error)

// Options configures a Session. Zero values get defaults.
type Options struct {
	Generator *generator.Generator
	Limiter   *ratelimit.Limiter
	Logger    *slog.Logger
	Header    *sanitize.Header
	FreeSpace bool
	// Strict makes duplicate prompts fatal.
	Strict bool
}

// Result is what a successful upload produces.
type Result struct {
	Board    *generator.Board  `json:"board"`
	Warnings []catalog.Warning `json:"warnings,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	gen     *generator.Generator
	limiter *ratelimit.Limiter
	logger  *slog.Logger
	strict  bool

	catalog   *catalog.Catalog
	baseName  string
	uploaded  bool
	freeSpace bool
	header    sanitize.Header
	board     *generator.Board
	version   int
}

// New creates a session in preview mode: the embedded sample catalog is
// loaded and a first board is generated from it.
func New(opts Options) (*Session, error) {
	s := &Session{
		gen:       opts.Generator,
		limiter:   opts.Limiter,
		logger:    opts.Logger,
		strict:    opts.Strict,
		freeSpace: opts.FreeSpace,
		header:    sanitize.DefaultHeader(),
	}
	if s.gen == nil {
		s.gen = generator.New()
	}
	if s.limiter == nil {
		s.limiter = ratelimit.New(ratelimit.DefaultMaxAttempts, ratelimit.DefaultWindow)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if opts.Header != nil {
		s.header = sanitize.SanitizeHeader(*opts.Header)
	}

	s.catalog = sanitize.Catalog(catalog.Sample())
	b, err := s.gen.Generate(s.catalog, s.freeSpace)
	if err != nil {
		return nil, fmt.Errorf("generate preview board: %w", err)
	}
	s.commitBoard(b)
	return s, nil
}

// Upload validates, sanitizes and generates from an uploaded catalog.
//
// Steps run strictly in order and stop at the first failure: rate limit,
// file checks, read, parse, shape, totals, duplicates, sanitize, totals
// again, generate. Warnings are returned alongside the board.
func (s *Session) Upload(meta catalog.FileMeta, read ReadFunc) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With("file", meta.Name, "size", meta.Size)

	if !s.limiter.CanAttempt() {
		wait := s.limiter.RemainingTime()
		e := catalog.NewError(catalog.KindRateLimited,
			fmt.Sprintf("Wait %s and try again.", wait.Round(time.Second)),
			"too many upload attempts")
		e.Details = map[string]any{"retry_after_ms": wait.Milliseconds()}
		log.Warn("upload rate limited", "retry_after", wait)
		return nil, e
	}
	s.limiter.RecordAttempt()

	res, c, err := s.runPipeline(meta, read)
	if err != nil {
		log.Info("upload rejected", "kind", catalog.KindOf(err), "error", err)
		return nil, err
	}

	b, err := s.gen.Generate(c, s.freeSpace)
	if err != nil {
		log.Error("generation failed after validation", "error", err)
		return nil, err
	}

	s.catalog = c
	s.baseName = baseName(meta.Name)
	s.uploaded = true
	s.version = 0
	s.commitBoard(b)
	res.Board = b

	log.Info("catalog uploaded",
		"categories", c.Len(),
		"prompts", c.TotalPrompts(),
		"warnings", len(res.Warnings),
		"board", b.ID)
	return res, nil
}

func (s *Session) runPipeline(meta catalog.FileMeta, read ReadFunc) (*Result, *catalog.Catalog, error) {
	if err := catalog.ValidateRawFile(meta); err != nil {
		return nil, nil, err
	}
	data, err := read()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", meta.Name, err)
	}
	if err := catalog.ValidateContentSize(meta.Name, int64(len(data))); err != nil {
		return nil, nil, err
	}
	doc, err := catalog.Parse(meta.Name, string(data))
	if err != nil {
		return nil, nil, err
	}
	raw, err := catalog.ValidateShape(doc)
	if err != nil {
		return nil, nil, err
	}
	if err := catalog.ValidateTotals(raw, s.freeSpace); err != nil {
		return nil, nil, err
	}

	res := &Result{}
	dups := catalog.CheckDuplicates(raw)
	if s.strict {
		if err := catalog.StrictDuplicates(dups); err != nil {
			return nil, nil, err
		}
	}
	res.Warnings = append(res.Warnings, catalog.DuplicateWarnings(dups)...)

	clean := sanitize.Catalog(raw)
	if err := catalog.ValidateTotals(clean, s.freeSpace); err != nil {
		var ce *catalog.Error
		if errors.As(err, &ce) {
			ce.Message += " after sanitization"
		}
		return nil, nil, err
	}
	res.Warnings = append(res.Warnings, catalog.PerformanceWarnings(meta.Size, clean)...)
	return res, clean, nil
}

// UploadFile runs Upload against a file on disk.
func (s *Session) UploadFile(path string) (*Result, error) {
	meta := catalog.FileMeta{Name: filepath.Base(path)}
	if path == "" {
		meta.Name = ""
	} else if fi, err := os.Stat(path); err == nil {
		meta.Size = fi.Size()
	} else {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return s.Upload(meta, func() ([]byte, error) { return os.ReadFile(path) })
}

// Recreate generates a new board from the catalog already held.
func (s *Session) Recreate() (*generator.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerate("recreate")
}

// SetFreeSpace switches free-space mode and regenerates. The mode is only
// changed if generation succeeds.
func (s *Session) SetFreeSpace(on bool) (*generator.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFreeSpaceLocked(on)
}

// ToggleFreeSpace flips free-space mode and regenerates.
func (s *Session) ToggleFreeSpace() (*generator.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setFreeSpaceLocked(!s.freeSpace)
}

// setFreeSpaceLocked does the work of SetFreeSpace. Caller holds mu.
func (s *Session) setFreeSpaceLocked(on bool) (*generator.Board, error) {
	prev := s.freeSpace
	s.freeSpace = on
	b, err := s.regenerate("free space")
	if err != nil {
		s.freeSpace = prev
	}
	return b, err
}

// regenerate runs the generator only. Caller holds mu.
func (s *Session) regenerate(reason string) (*generator.Board, error) {
	b, err := s.gen.Generate(s.catalog, s.freeSpace)
	if err != nil {
		s.logger.Warn("regenerate failed", "reason", reason, "error", err)
		return nil, err
	}
	s.commitBoard(b)
	s.logger.Debug("board regenerated", "reason", reason, "board", b.ID, "version", s.version)
	return b, nil
}

func (s *Session) commitBoard(b *generator.Board) {
	s.board = b
	s.version++
}

// SetHeader sanitizes and stores h, returning the stored value.
func (s *Session) SetHeader(h sanitize.Header) sanitize.Header {
	clean := sanitize.SanitizeHeader(h)
	s.mu.Lock()
	s.header = clean
	s.mu.Unlock()
	return clean
}

// Board returns the current board.
func (s *Session) Board() *generator.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Header returns the current header.
func (s *Session) Header() sanitize.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.header
}

// Catalog returns a copy of the sanitized catalog.
func (s *Session) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Clone()
}

func (s *Session) FreeSpace() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freeSpace
}

// Version counts generations since the last successful upload (or since
// the session started, in preview mode). The first board is version 1.
func (s *Session) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Preview reports whether no file has been uploaded yet.
func (s *Session) Preview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.uploaded
}

// ExportFilename names an export of the current board, without extension:
// {base}{-vN if version>1}{-preview if no upload}-{YYYY-MM-DD}.
func (s *Session) ExportFilename(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportFilename(s.baseName, s.version, !s.uploaded, now)
}

// ExportFilename is the naming policy behind Session.ExportFilename.
// The date is the UTC calendar date of now.
func ExportFilename(base string, version int, preview bool, now time.Time) string {
	if base == "" {
		base = FallbackBaseName
	}
	var b strings.Builder
	b.WriteString(base)
	if version > 1 {
		fmt.Fprintf(&b, "-v%d", version)
	}
	if preview {
		b.WriteString("-preview")
	}
	b.WriteString("-")
	b.WriteString(now.UTC().Format(time.DateOnly))
	return b.String()
}

// baseName strips the directory and extension from an uploaded file name
// and makes the rest safe to use in a file name.
func baseName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r < 0x20 || r == 0x7f:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		return ""
	}
	return name
}
