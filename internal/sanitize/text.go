// Package sanitize neutralizes user text before it enters the catalog or
// the rendered board.
//
// Sanitization is independent of validation: it runs on every category
// name, prompt and header field even if the validator accepted them.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options controls Text.
type Options struct {
	// MaxLength caps the result in code points. Zero means no cap.
	MaxLength            int
	AllowEmojis          bool
	AllowBasicFormatting bool
	TrimWhitespace       bool
}

// Field limits.
const (
	MaxCategoryLength     = 50
	MaxPromptLength       = 200
	MaxTitleLength        = 100
	MaxSubtitleLength     = 100
	MaxInstructionsLength = 200

	// MinPromptLength is the floor below which a sanitized prompt is
	// dropped.
	MinPromptLength = 3
)

// CategoryOptions and PromptOptions are the fixed settings for catalog
// text.
var (
	CategoryOptions = Options{MaxLength: MaxCategoryLength, AllowEmojis: true, TrimWhitespace: true}
	PromptOptions   = Options{MaxLength: MaxPromptLength, AllowEmojis: true, TrimWhitespace: true}
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

const formattingChars = "*_`~"

// Text sanitizes one free-text field.
//
// Order: NFC normalize, trim, escape the five HTML-reserved characters,
// drop control characters, optionally drop emojis and formatting
// punctuation, collapse whitespace, truncate.
func Text(input string, opts Options) string {
	s := norm.NFC.String(input)
	if opts.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	s = htmlEscaper.Replace(s)

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		case !opts.AllowEmojis && isEmoji(r):
			return -1
		case !opts.AllowBasicFormatting && strings.ContainsRune(formattingChars, r):
			return -1
		}
		return r
	}, s)

	s = collapseSpaces(s)
	if opts.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	if opts.MaxLength > 0 {
		s = truncate(s, opts.MaxLength)
	}
	return s
}

// Category sanitizes a category name.
func Category(s string) string { return Text(s, CategoryOptions) }

// Prompt sanitizes a prompt.
func Prompt(s string) string { return Text(s, PromptOptions) }

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// truncate cuts s to max code points. If the last space falls within the
// final 20% of the cut, it cuts there instead. An HTML entity split by the
// cut is dropped whole.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)[:max]
	if i := lastIndexRune(r, ' '); i > 0 && float64(i) >= float64(max)*0.8 {
		r = r[:i]
	}
	if amp := lastIndexRune(r, '&'); amp >= 0 && lastIndexRune(r[amp:], ';') < 0 {
		r = r[:amp]
	}
	return strings.TrimRight(string(r), " ")
}

func lastIndexRune(r []rune, target rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == target {
			return i
		}
	}
	return -1
}

var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200d, Hi: 0x200d, Stride: 1}, // zero width joiner
		{Lo: 0x2600, Hi: 0x27bf, Stride: 1}, // misc symbols, dingbats
		{Lo: 0x2b00, Hi: 0x2bff, Stride: 1},
		{Lo: 0xfe0f, Hi: 0xfe0f, Stride: 1}, // variation selector
	},
	R32: []unicode.Range32{
		{Lo: 0x1f000, Hi: 0x1faff, Stride: 1},
	},
}

func isEmoji(r rune) bool {
	return unicode.Is(emojiRanges, r)
}
