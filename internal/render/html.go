// Package render turns a board and its header into something a person
// can look at: a printable HTML document or a terminal grid.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/roach88/bingo/internal/generator"
	"github.com/roach88/bingo/internal/sanitize"
)

// Board text reaching the renderers has already been HTML-escaped by the
// sanitizer, so the HTML template inserts it as trusted markup.
var page = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: letter portrait; margin: 0.5in; }
body { font-family: Helvetica, Arial, sans-serif; margin: 0; color: #111; }
.card { width: 7.5in; margin: 0 auto; text-align: center; }
h1 { font-size: 40pt; letter-spacing: 0.3em; margin: 0 0 4pt; }
h2 { font-size: 14pt; font-weight: normal; margin: 0 0 6pt; }
.instructions { font-size: 11pt; margin: 0 0 12pt; }
.grid { width: 100%; border-collapse: collapse; table-layout: fixed; }
.cell { border: 2px solid #111; height: 1.4in; padding: 6pt; font-size: 11pt; vertical-align: middle; overflow-wrap: break-word; }
.free { background: #111; color: #fff; font-size: 20pt; font-weight: bold; }
</style>
</head>
<body>
<main class="card" data-board="{{.ID}}">
<header>
<h1>{{.Title}}</h1>
{{- if .Subtitle}}
<h2>{{.Subtitle}}</h2>
{{- end}}
{{- if .Instructions}}
<p class="instructions">{{.Instructions}}</p>
{{- end}}
</header>
<table class="grid">
{{- range .Rows}}
<tr>
{{- range .}}
<td class="{{if .Free}}cell free{{else}}cell{{end}}">{{.Label}}</td>
{{- end}}
</tr>
{{- end}}
</table>
</main>
</body>
</html>
`))

type htmlCell struct {
	Free  bool
	Label template.HTML
}

type htmlPage struct {
	ID           string
	Title        template.HTML
	Subtitle     template.HTML
	Instructions template.HTML
	Rows         [][]htmlCell
}

// HTML renders a standalone printable document: the header followed by
// the 25 cells in row-major order. The free cell carries class "free".
func HTML(b *generator.Board, h sanitize.Header) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("render html: nil board")
	}
	p := htmlPage{
		ID:           b.ID,
		Title:        template.HTML(h.Title),
		Subtitle:     template.HTML(h.Subtitle),
		Instructions: template.HTML(h.Instructions),
	}
	for r := 0; r < generator.Size; r++ {
		row := make([]htmlCell, 0, generator.Size)
		for _, c := range b.Row(r) {
			row = append(row, htmlCell{Free: c.Free, Label: template.HTML(c.Label())})
		}
		p.Rows = append(p.Rows, row)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, p); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
