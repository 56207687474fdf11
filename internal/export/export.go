// Package export writes a rendered board to disk as PDF, PNG or HTML.
//
// PDF and PNG go through a Rasterizer; the production one drives headless
// Chromium with go-rod. HTML is written as rendered.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/logging"
	"github.com/roach88/bingo/internal/render"
	"github.com/roach88/bingo/internal/sanitize"
)

// Failure classes. Every Export error wraps exactly one of them.
var (
	ErrRasterize = errors.New("rasterize failed")
	ErrEncode    = errors.New("encode failed")
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
)

// ParseFormat accepts pdf, png and html, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want pdf, png or html)", s)
}

// Ext is the file extension, without the dot.
func (f Format) Ext() string { return string(f) }

var magic = map[Format][]byte{
	FormatPDF: []byte("%PDF"),
	FormatPNG: []byte("\x89PNG"),
}

// Rasterizer turns an HTML document into PDF or PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, html []byte, format Format) ([]byte, error)
}

// DefaultTimeout bounds one export when no WithTimeout option is given.
const DefaultTimeout = 30 * time.Second

// Exporter renders, rasterizes and writes boards.
type Exporter struct {
	rasterizer Rasterizer
	logger     *slog.Logger
	timeout    time.Duration
}

type Option func(*Exporter)

func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an Exporter. r may be nil if only HTML is exported.
func New(r Rasterizer, opts ...Option) *Exporter {
	e := &Exporter{rasterizer: r, logger: logging.Discard(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes <dir>/<filename>.<ext> and returns its path. The file is
// written to a temporary name first, so a failed export never leaves a
// partial file behind.
func (e *Exporter) Export(ctx context.Context, b *generator.Board, h sanitize.Header, dir, filename string, format Format) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("%w: invalid file name %q", ErrEncode, filename)
	}
	doc, err := render.HTML(b, h)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}

	out := doc
	if format != FormatHTML {
		if out, err = e.rasterize(ctx, doc, format); err != nil {
			return "", err
		}
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, filename+"."+format.Ext())
	if err := writeFile(path, out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	e.logger.Info("board exported", "path", path, "format", string(format), "bytes", len(out), "board", b.ID)
	return path, nil
}

func (e *Exporter) rasterize(ctx context.Context, doc []byte, format Format) ([]byte, error) {
	want, ok := magic[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrEncode, format)
	}
	if e.rasterizer == nil {
		return nil, fmt.Errorf("%w: no rasterizer configured", ErrRasterize)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	out, err := e.rasterizer.Rasterize(ctx, doc, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	if !bytes.HasPrefix(out, want) {
		return nil, fmt.Errorf("%w: rasterizer returned %d bytes that are not %s", ErrEncode, len(out), format)
	}
	e.logger.Debug("rasterized", "format", string(format), "elapsed", time.Since(start))
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
