package catalog

import (
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// Document is a parsed upload, not yet checked for catalog shape.
//
// The tree is held as a CUE value so object fields keep their source
// order and every node keeps its line position for diagnostics.
type Document struct {
	value cue.Value
	// repeats counts top-level keys that occur more than once.
	repeats map[string]int
}

// Value exposes the underlying CUE value.
func (d *Document) Value() cue.Value {
	return d.value
}

// Parse turns raw upload text into a Document.
// name is only used in parser diagnostics.
func Parse(name, text string) (*Document, error) {
	if text == "" {
		return nil, newError(KindEmptyContent,
			"Add category names with prompt lists to the file and upload it again.",
			"the file is empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindWhitespaceOnly,
			"The file only contains spaces or line breaks; add your categories and prompts.",
			"the file contains only whitespace")
	}
	if name == "" {
		name = "upload" + FileExtension
	}

	expr, err := cuejson.Extract(name, []byte(text))
	if err != nil {
		return nil, invalidJSON(err)
	}

	repeats := dropRepeatedKeys(expr)

	v := cuecontext.New().BuildExpr(expr)
	if err := v.Err(); err != nil {
		return nil, invalidJSON(err)
	}
	return &Document{value: v, repeats: repeats}, nil
}

// dropRepeatedKeys keeps only the first occurrence of each top-level key.
// CUE would otherwise unify repeated keys, merging identical values and
// rejecting different ones with an unhelpful conflict message. The counts
// of repeated keys are returned so shape validation can report them.
func dropRepeatedKeys(expr ast.Expr) map[string]int {
	st, ok := expr.(*ast.StructLit)
	if !ok {
		return nil
	}
	counts := make(map[string]int, len(st.Elts))
	kept := st.Elts[:0]
	for _, d := range st.Elts {
		f, ok := d.(*ast.Field)
		if !ok {
			kept = append(kept, d)
			continue
		}
		name, _, err := ast.LabelName(f.Label)
		if err != nil {
			kept = append(kept, d)
			continue
		}
		counts[name]++
		if counts[name] == 1 {
			kept = append(kept, d)
		}
	}
	st.Elts = kept

	var repeats map[string]int
	for name, n := range counts {
		if n > 1 {
			if repeats == nil {
				repeats = make(map[string]int)
			}
			repeats[name] = n
		}
	}
	return repeats
}

func invalidJSON(err error) *Error {
	e := newError(KindInvalidJSON,
		`Check for missing commas, quotes or brackets. The file should look like {"category": ["prompt", "prompt"]}.`,
		"the file is not valid JSON")
	e.Err = err
	e.Details = map[string]any{"parser": err.Error()}
	if pos := cueerrors.Positions(err); len(pos) > 0 && pos[0].IsValid() {
		e.Details["line"] = pos[0].Line()
		e.Details["column"] = pos[0].Column()
	}
	return e
}

// kindName describes a CUE kind the way a JSON user would.
func kindName(k cue.Kind) string {
	switch k {
	case cue.StructKind:
		return "an object"
	case cue.ListKind:
		return "an array"
	case cue.StringKind:
		return "a string"
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		return "a number"
	case cue.BoolKind:
		return "a boolean"
	case cue.NullKind:
		return "null"
	default:
		return k.String()
	}
}
