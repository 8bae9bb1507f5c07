// Package preview renders a generated document as an HTML fragment for
// in-browser preview. Heading-styled paragraphs become h3, paragraphs with
// any bold or italic run become strong/em paragraphs, tables become plain
// grids; every text node is escaped by the template engine.
package preview

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/generator"
	"github.com/goliatone/go-docgen/pkg/render"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// Renderer builds the preview fragment from an embedded pongo2 template.
type Renderer struct {
	tpl *pongo2.Template
}

// New loads the embedded preview template.
func New() (*Renderer, error) {
	set := pongo2.NewSet("docgen-preview", pongo2.NewFSLoader(templatesFS))
	tpl, err := set.FromFile("templates/preview.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("preview: load template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, req render.Request) ([]byte, error) {
	doc := req.Document
	if doc == nil {
		gen, err := generator.New(req.TemplatePath, req.Data)
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		gen.Substitute()
		doc = gen.Document()
	}

	out, err := r.tpl.Execute(pongo2.Context{
		"blocks": paragraphBlocks(doc),
		"tables": tableGrids(doc),
	})
	if err != nil {
		return nil, fmt.Errorf("preview: execute template: %w", err)
	}
	return []byte(out), nil
}

func paragraphBlocks(doc *docx.Document) []map[string]any {
	var blocks []map[string]any
	for _, p := range doc.Paragraphs() {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			continue
		}
		kind := "plain"
		switch {
		case render.HasHeadingStyle(p):
			kind = "heading"
		case anyRun(p, func(r *docx.Run) bool { return r.Props.Bold }):
			kind = "bold"
		case anyRun(p, func(r *docx.Run) bool { return r.Props.Italic }):
			kind = "italic"
		}
		blocks = append(blocks, map[string]any{"kind": kind, "text": text})
	}
	return blocks
}

func anyRun(p *docx.Paragraph, match func(*docx.Run) bool) bool {
	for _, r := range p.Runs() {
		if match(r) {
			return true
		}
	}
	return false
}

func tableGrids(doc *docx.Document) [][][]string {
	var tables [][][]string
	for _, tbl := range doc.Tables() {
		var rows [][]string
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, rows)
	}
	return tables
}
