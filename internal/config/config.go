// Package config loads bingo settings.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, an optional .env file, then BINGO_* environment
// variables. Variables already set in the environment take precedence over
// the .env file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bingo/internal/logging"
	"github.com/roach88/bingo/internal/ratelimit"
	"github.com/roach88/bingo/internal/sanitize"
)

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Export formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatHTML = "html"
)

type Config struct {
	Board     BoardConfig     `yaml:"board"`
	Header    sanitize.Header `yaml:"header"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
}

type BoardConfig struct {
	FreeSpace bool `yaml:"free_space"`
	// Strict makes duplicate prompts fatal.
	Strict bool `yaml:"strict"`
}

type RateLimitConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Window      time.Duration `yaml:"window"`
}

type ExportConfig struct {
	Format string `yaml:"format"`
	Dir    string `yaml:"dir"`
	// BrowserBin points at a Chromium binary. Empty lets go-rod find or
	// download one.
	BrowserBin string        `yaml:"browser_bin"`
	Timeout    time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Board:  BoardConfig{FreeSpace: true},
		Header: sanitize.DefaultHeader(),
		RateLimit: RateLimitConfig{
			MaxAttempts: ratelimit.DefaultMaxAttempts,
			Window:      ratelimit.DefaultWindow,
		},
		Export: ExportConfig{
			Format:  FormatPDF,
			Dir:     ".",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: logging.FormatText},
	}
}

// Load reads path (optional; "" skips it) and DefaultEnvFile, then the
// process environment.
func Load(path string) (*Config, error) {
	return LoadFrom(path, DefaultEnvFile, os.LookupEnv)
}

// LoadFrom is Load with an explicit .env path and environment lookup.
// A missing envFile is not an error.
func LoadFrom(path, envFile string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	get := func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}
	if err := cfg.applyEnv(get); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv(get func(string) (string, bool)) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
				return
			}
			*dst = b
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
				return
			}
			*dst = d
		}
	}

	boolean("BINGO_FREE_SPACE", &c.Board.FreeSpace)
	boolean("BINGO_STRICT", &c.Board.Strict)
	str("BINGO_TITLE", &c.Header.Title)
	str("BINGO_INSTRUCTIONS", &c.Header.Instructions)
	str("BINGO_SUBTITLE", &c.Header.Subtitle)
	integer("BINGO_RATE_LIMIT_MAX", &c.RateLimit.MaxAttempts)
	duration("BINGO_RATE_LIMIT_WINDOW", &c.RateLimit.Window)
	str("BINGO_EXPORT_FORMAT", &c.Export.Format)
	str("BINGO_EXPORT_DIR", &c.Export.Dir)
	str("BINGO_BROWSER_BIN", &c.Export.BrowserBin)
	duration("BINGO_EXPORT_TIMEOUT", &c.Export.Timeout)
	str("BINGO_LOG_LEVEL", &c.Log.Level)
	str("BINGO_LOG_FORMAT", &c.Log.Format)

	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.RateLimit.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.max_attempts must be positive, got %d", c.RateLimit.MaxAttempts))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window))
	}
	switch strings.ToLower(c.Export.Format) {
	case FormatPDF, FormatPNG, FormatHTML:
	default:
		errs = append(errs, fmt.Errorf("export.format must be pdf, png or html, got %q", c.Export.Format))
	}
	if c.Export.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("export.timeout must be positive, got %s", c.Export.Timeout))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format))
	}
	return errors.Join(errs...)
}
