package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bingo/internal/catalog"
)

func TestText_EscapesScript(t *testing.T) {
	got := Text("<script>alert(1)</script>", PromptOptions)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", got)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")

	short := Text("<script>alert(1)</script>", Options{MaxLength: 20, TrimWhitespace: true})
	assert.NotContains(t, short, "<")
	assert.NotContains(t, short, ">")
	assert.LessOrEqual(t, utf8.RuneCountInString(short), 20)
}

func TestText_EscapesEachReservedCharacter(t *testing.T) {
	assert.Equal(t, "Tom&#39;s &quot;best&quot; &amp; more", Prompt(`Tom's "best" & more`))
}

func TestText_ControlCharactersAndWhitespace(t *testing.T) {
	assert.Equal(t, "abc", Prompt("a\x00b\x07c\x7f"))
	assert.Equal(t, "line1 line2 x", Prompt("  line1\nline2\t\t x  "))
}

func TestText_Emojis(t *testing.T) {
	noEmoji := Options{TrimWhitespace: true}
	assert.Equal(t, "party time", Text("party 🎉 time", noEmoji))
	assert.Equal(t, "sunny", Text("☀️ sunny", noEmoji))
	assert.Equal(t, "party 🎉 time", Prompt("party 🎉 time"))
}

func TestText_Formatting(t *testing.T) {
	assert.Equal(t, "bold it code s", Prompt("*bold* _it_ `code` ~s~"))
	keep := Options{AllowBasicFormatting: true, TrimWhitespace: true}
	assert.Equal(t, "*bold*", Text("*bold*", keep))
}

func TestText_NormalizesToNFC(t *testing.T) {
	assert.Equal(t, "caf\u00e9", Prompt("cafe\u0301"))
}

func TestText_NoTrim(t *testing.T) {
	assert.Equal(t, " a b ", Text("  a   b  ", Options{}))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "hello", 10, "hello"},
		{"word boundary in last 20%", "hello world again", 13, "hello world"},
		{"word boundary too early", "hello world again", 15, "hello world aga"},
		{"no spaces", "abcdefghij", 4, "abcd"},
		{"multibyte", "ééééé", 3, "ééé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in, Options{MaxLength: tt.max, TrimWhitespace: true}))
		})
	}
}

func TestTruncate_DropsSplitEntity(t *testing.T) {
	got := Text("abc & def", Options{MaxLength: 6, TrimWhitespace: true})
	assert.Equal(t, "abc", got)
}

func TestText_NeverExceedsMax(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 100),
		strings.Repeat("<&>", 100),
		strings.Repeat("x", 500),
	}
	for _, in := range inputs {
		assert.LessOrEqual(t, utf8.RuneCountInString(Prompt(in)), MaxPromptLength)
		assert.LessOrEqual(t, utf8.RuneCountInString(Category(in)), MaxCategoryLength)
	}
}

func TestCatalog(t *testing.T) {
	in := &catalog.Catalog{Categories: []catalog.Category{
		{Name: "  work  ", Prompts: []string{"  ok prompt ", "<b>", "ab", "\x00\x01"}},
		{Name: "   ", Prompts: []string{"dropped with its category"}},
		{Name: "empty", Prompts: []string{"x", "  "}},
		{Name: "hobbies", Prompts: []string{"plays *chess*"}},
		{Name: "work", Prompts: []string{"merged prompt"}},
	}}
	before := in.Clone()

	out := Catalog(in)
	require.Equal(t, []string{"work", "hobbies"}, out.Names())
	assert.Equal(t, []string{"ok prompt", "&lt;b&gt;", "merged prompt"}, out.Categories[0].Prompts)
	assert.Equal(t, []string{"plays chess"}, out.Categories[1].Prompts)

	assert.Equal(t, before, in, "input must not be mutated")
}

func TestCatalog_CanFallBelowMinimum(t *testing.T) {
	ps := make([]string, 24)
	for i := range ps {
		ps[i] = "ok"
		if i < 20 {
			ps[i] = "fine prompt " + string(rune('a'+i))
		}
	}
	ps[20], ps[21], ps[22], ps[23] = "\x00\x00\x00", "**", "  !  ", "~~~"
	in := &catalog.Catalog{Categories: []catalog.Category{{Name: "a", Prompts: ps}}}
	require.NoError(t, catalog.ValidateTotals(in, true))

	out := Catalog(in)
	err := catalog.ValidateTotals(out, true)
	assert.True(t, catalog.IsKind(err, catalog.KindInsufficientPrompts))
}

func TestCatalog_Nil(t *testing.T) {
	assert.Equal(t, 0, Catalog(nil).Len())
}

func TestSanitizeHeader(t *testing.T) {
	h := SanitizeHeader(Header{
		Title:        "  Team <Bingo>  ",
		Instructions: strings.Repeat("find ", 60),
		Subtitle:     "Q3\noffsite",
	})
	assert.Equal(t, "Team &lt;Bingo&gt;", h.Title)
	assert.LessOrEqual(t, utf8.RuneCountInString(h.Instructions), MaxInstructionsLength)
	assert.Equal(t, "Q3 offsite", h.Subtitle)
}
