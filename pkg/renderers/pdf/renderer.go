// Package pdf renders a filled template as a page-flow PDF: headings and
// body paragraphs with per-run bold/italic styling, followed by grid tables
// with a shaded header row.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/generator"
	"github.com/goliatone/go-docgen/pkg/render"
)

const (
	bodyFontSize    = 11
	headingFontSize = 16
	bodyLineHeight  = 14
	headerRowHeight = 24
	bodyRowHeight   = 20
)

// Option configures the renderer.
type Option func(*Renderer)

// WithCreationDate pins the PDF creation timestamp, making output
// byte-reproducible. The zero default lets the PDF library stamp the
// current time.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) {
		r.creationDate = t
	}
}

// Renderer builds PDF output. It never touches the caller's generated
// document: every Render call reloads the template from disk and re-runs the
// substitution pass on that fresh copy, so repeated exports are equivalent
// and the generated DOCX instance stays unmodified.
type Renderer struct {
	creationDate time.Time
}

// New constructs the renderer applying any provided options.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "pdf"
}

func (r *Renderer) ContentType() string {
	return "application/pdf"
}

func (r *Renderer) Render(_ context.Context, req render.Request) ([]byte, error) {
	if req.TemplatePath == "" {
		return nil, errors.New("pdf: template path is required")
	}

	gen, err := generator.New(req.TemplatePath, req.Data)
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	gen.Substitute()
	doc := gen.Document()

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 72)
	if !r.creationDate.IsZero() {
		pdf.SetCreationDate(r.creationDate)
	}
	pdf.AddPage()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, p := range doc.Paragraphs() {
		writeParagraph(pdf, translate, p)
	}
	for _, tbl := range doc.Tables() {
		writeTable(pdf, translate, tbl)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(pdf *gofpdf.Fpdf, translate func(string) string, p *docx.Paragraph) {
	text := strings.TrimSpace(render.StripPlaceholders(p.Text()))
	if text == "" {
		pdf.Ln(7)
		return
	}

	if render.IsHeading(p) {
		pdf.SetFont("Helvetica", "B", headingFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 20, translate(text), "", "L", false)
		pdf.Ln(8)
		return
	}

	pdf.SetTextColor(0, 0, 0)
	for _, run := range p.Runs() {
		runText := render.StripPlaceholders(run.Text())
		if runText == "" {
			continue
		}
		style := ""
		if run.Props.Bold {
			style += "B"
		}
		if run.Props.Italic {
			style += "I"
		}
		pdf.SetFont("Helvetica", style, bodyFontSize)
		pdf.Write(bodyLineHeight, translate(runText))
	}
	pdf.Ln(bodyLineHeight)
	pdf.Ln(6)
}

func writeTable(pdf *gofpdf.Fpdf, translate func(string) string, tbl *docx.Table) {
	if len(tbl.Rows) == 0 || len(tbl.Rows[0].Cells) == 0 {
		return
	}
	cols := len(tbl.Rows[0].Cells)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(cols)

	pdf.Ln(10)
	for i, row := range tbl.Rows {
		rowH := float64(bodyRowHeight)
		if i == 0 {
			rowH = headerRowHeight
			pdf.SetFillColor(128, 128, 128)
			pdf.SetTextColor(245, 245, 245)
			pdf.SetFont("Helvetica", "B", 10)
		} else {
			pdf.SetFillColor(245, 245, 220)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 9)
		}

		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row.Cells) {
				text = strings.TrimSpace(render.StripPlaceholders(row.Cells[c].Text()))
			}
			pdf.CellFormat(colW, rowH, translate(text), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(rowH)
	}
	pdf.Ln(10)
}
