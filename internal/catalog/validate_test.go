package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildJSON renders categories as a JSON object, preserving order.
func buildJSON(t *testing.T, cats ...Category) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("{")
	for i, c := range cats {
		if i > 0 {
			b.WriteString(",")
		}
		k, err := json.Marshal(c.Name)
		require.NoError(t, err)
		v, err := json.Marshal(c.Prompts)
		require.NoError(t, err)
		b.Write(k)
		b.WriteString(":")
		b.Write(v)
	}
	b.WriteString("}")
	return b.String()
}

func prompts(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s prompt %d", prefix, i+1)
	}
	return out
}

func mustShape(t *testing.T, text string) *Catalog {
	t.Helper()
	doc, err := Parse("test.json", text)
	require.NoError(t, err)
	c, err := ValidateShape(doc)
	require.NoError(t, err)
	return c
}

func shapeErr(t *testing.T, text string) *Error {
	t.Helper()
	doc, err := Parse("test.json", text)
	require.NoError(t, err)
	_, err = ValidateShape(doc)
	require.Error(t, err)
	var e *Error
	require.ErrorAs(t, err, &e)
	return e
}

func TestValidateRawFile(t *testing.T) {
	tests := []struct {
		name string
		meta FileMeta
		kind ErrorKind
	}{
		{"valid", FileMeta{Name: "prompts.json", Size: 100}, ""},
		{"uppercase extension", FileMeta{Name: "PROMPTS.JSON", Size: 100}, ""},
		{"exact limit", FileMeta{Name: "p.json", Size: MaxFileSize}, ""},
		{"no name", FileMeta{Name: "", Size: 100}, KindNoFile},
		{"wrong extension", FileMeta{Name: "prompts.txt", Size: 100}, KindInvalidFileType},
		{"no extension", FileMeta{Name: "prompts", Size: 100}, KindInvalidFileType},
		{"empty", FileMeta{Name: "p.json", Size: 0}, KindEmptyFile},
		{"too large", FileMeta{Name: "p.json", Size: MaxFileSize + 1}, KindFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRawFile(tt.meta)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.NotEmpty(t, e.Suggestion)
		})
	}
}

func TestValidateContentSize(t *testing.T) {
	assert.NoError(t, ValidateContentSize("p.json", MaxFileSize))

	err := ValidateContentSize("p.json", MaxFileSize+1)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindFileTooLarge, e.Kind)
	assert.Equal(t, int64(MaxFileSize+1), e.Details["size"])
}

func TestParse_Blank(t *testing.T) {
	_, err := Parse("a.json", "")
	assert.True(t, IsKind(err, KindEmptyContent))

	_, err = Parse("a.json", "  \n\t ")
	assert.True(t, IsKind(err, KindWhitespaceOnly))
}

func TestParse_InvalidJSONCarriesDiagnostic(t *testing.T) {
	_, err := Parse("a.json", `{"work": ["one", "two",]}`)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidJSON))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.NotEmpty(t, e.Details["parser"])
	assert.NotNil(t, e.Unwrap())
}

func TestValidateShape_PreservesOrder(t *testing.T) {
	text := buildJSON(t,
		Category{Name: "zeta", Prompts: []string{"aaa"}},
		Category{Name: "alpha", Prompts: []string{"bbb"}},
		Category{Name: "mid", Prompts: []string{"ccc"}},
	)
	c := mustShape(t, text)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, c.Names())
}

func TestValidateShape_HashPrefixedKeys(t *testing.T) {
	c := mustShape(t, buildJSON(t, Category{Name: "#goals", Prompts: prompts("goal", 30)}))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "#goals", c.Categories[0].Name)
	assert.Len(t, c.Categories[0].Prompts, 30)

	c = mustShape(t, buildJSON(t,
		Category{Name: "work", Prompts: prompts("work", 8)},
		Category{Name: "#teamwork", Prompts: prompts("team", 8)},
		Category{Name: "_h", Prompts: prompts("hidden", 8)},
	))
	assert.ElementsMatch(t, []string{"work", "#teamwork", "_h"}, c.Names())
	assert.Equal(t, 24, c.TotalPrompts())
}

func TestValidateShape_RepeatedKeys(t *testing.T) {
	tests := map[string]string{
		"different values": `{"work": ["a prompt 1", "a prompt 2"], "fun": ["fun one"], "work": ["b prompt 1"]}`,
		"same values":      `{"work": ["a prompt 1"], "fun": ["fun one"], "work": ["a prompt 1"]}`,
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			e := shapeErr(t, text)
			assert.Equal(t, KindCategoryIssues, e.Kind)
			require.Len(t, e.Issues, 1)
			assert.Equal(t, "work", e.Issues[0].Category)
			assert.Contains(t, e.Issues[0].Problem, "appears 2 times")
		})
	}
}

func TestValidateShape_RootMustBeObject(t *testing.T) {
	for _, text := range []string{`["a", "b"]`, `null`, `"text"`, `42`} {
		t.Run(text, func(t *testing.T) {
			e := shapeErr(t, text)
			assert.Equal(t, KindInvalidStructure, e.Kind)
		})
	}
}

func TestValidateShape_CategoryCount(t *testing.T) {
	e := shapeErr(t, `{}`)
	assert.Equal(t, KindNoCategories, e.Kind)

	cats := make([]Category, MaxCategories+1)
	for i := range cats {
		cats[i] = Category{Name: fmt.Sprintf("c%d", i), Prompts: []string{"abc"}}
	}
	e = shapeErr(t, buildJSON(t, cats...))
	assert.Equal(t, KindTooManyCategories, e.Kind)
}

func TestValidateShape_NotAnArray(t *testing.T) {
	e := shapeErr(t, `{"personal": "not an array"}`)
	assert.Equal(t, KindCategoryIssues, e.Kind)
	require.Len(t, e.Issues, 1)
	assert.Equal(t, "personal", e.Issues[0].Category)
	assert.Contains(t, e.Issues[0].Problem, "must be an array")
}

func TestValidateShape_EmptyCategory(t *testing.T) {
	e := shapeErr(t, `{"empty": [], "ok": ["abc"]}`)
	assert.Equal(t, KindCategoryIssues, e.Kind)
	require.Len(t, e.Issues, 1)
	assert.Equal(t, "empty", e.Issues[0].Category)
	assert.Contains(t, e.Issues[0].Problem, "at least one prompt")
}

func TestValidateShape_CategoryNameLength(t *testing.T) {
	long := strings.Repeat("x", MaxCategoryNameLen+1)
	e := shapeErr(t, fmt.Sprintf(`{"   ": ["abc"], %q: ["abc"]}`, long))
	assert.Equal(t, KindCategoryIssues, e.Kind)
	assert.Equal(t, 2, e.TotalIssues)
}

func TestValidateShape_PromptIssuesCollectsAll(t *testing.T) {
	bad := make([]any, 0, 15)
	for i := 0; i < 12; i++ {
		bad = append(bad, "no")
	}
	bad = append(bad, 7, strings.Repeat("y", MaxPromptLen+1), "fine prompt")
	raw, err := json.Marshal(map[string]any{"mixed": bad})
	require.NoError(t, err)

	e := shapeErr(t, string(raw))
	assert.Equal(t, KindPromptIssues, e.Kind)
	assert.Equal(t, 14, e.TotalIssues)
	assert.Len(t, e.Issues, MaxReportedIssues)
	assert.Equal(t, 4, e.More())
	assert.Equal(t, 0, e.Issues[0].Index)
	assert.Contains(t, e.Report(), "+4 more")
}

func TestValidateShape_CategoryIssuesWinOverPromptIssues(t *testing.T) {
	e := shapeErr(t, `{"bad": 3, "short": ["no"]}`)
	assert.Equal(t, KindCategoryIssues, e.Kind)
	assert.Equal(t, 1, e.Details["prompt_issues"])
}

func TestValidateShape_TrimmedLengths(t *testing.T) {
	e := shapeErr(t, `{"a": ["   ab   "]}`)
	assert.Equal(t, KindPromptIssues, e.Kind)

	c := mustShape(t, `{"a": ["  abc  "]}`)
	assert.Equal(t, "  abc  ", c.Categories[0].Prompts[0])
}

func TestValidateTotals(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		freeSpace bool
		kind      ErrorKind
	}{
		{"24 with free space", 24, true, ""},
		{"24 without free space", 24, false, KindInsufficientPrompts},
		{"25 without free space", 25, false, ""},
		{"23 with free space", 23, true, KindInsufficientPrompts},
		{"at ceiling", MaxTotalPrompts, true, ""},
		{"over ceiling", MaxTotalPrompts + 1, true, KindTooManyPrompts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Categories: []Category{{Name: "a", Prompts: prompts("a", tt.total)}}}
			err := ValidateTotals(c, tt.freeSpace)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestValidateTotals_TwoSmallCategoriesRejected(t *testing.T) {
	c := mustShape(t, buildJSON(t,
		Category{Name: "a", Prompts: prompts("a", 10)},
		Category{Name: "b", Prompts: prompts("b", 10)},
	))
	err := ValidateTotals(c, true)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInsufficientPrompts))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 20, e.Details["total"])
	assert.Equal(t, 24, e.Details["needed"])
}

func TestSample(t *testing.T) {
	c := Sample()
	require.NotNil(t, c)
	assert.Equal(t, []string{"work", "hobbies", "travel"}, c.Names())
	assert.NoError(t, ValidateTotals(c, false))
	assert.Empty(t, CheckDuplicates(c))
}

func TestPerformanceWarnings(t *testing.T) {
	small := &Catalog{Categories: []Category{{Name: "a", Prompts: prompts("a", 30)}}}
	assert.Empty(t, PerformanceWarnings(1024, small))

	big := &Catalog{Categories: []Category{{Name: "a", Prompts: prompts("a", LargeCatalogWarn+1)}}}
	w := PerformanceWarnings(LargeFileWarnBytes+1, big)
	require.Len(t, w, 2)
	assert.Equal(t, WarnPerformance, w[0].Kind)
}
