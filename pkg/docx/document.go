// Package docx reads and writes the subset of WordprocessingML the document
// pipeline manipulates: body paragraphs, tables, text runs with character
// formatting, and inline images. Parts of the package that this model does
// not understand (section properties, run fonts, drawings already present in
// the template) are captured as raw XML and written back verbatim, so
// untouched content round-trips byte-for-byte at the part level.
package docx

import "strings"

// BodyItem is a block-level element inside the document body: *Paragraph,
// *Table, or RawXML for anything the model does not interpret.
type BodyItem interface {
	isBodyItem()
}

// RawXML holds a verbatim slice of the source document.xml that is preserved
// but not interpreted.
type RawXML string

func (RawXML) isBodyItem() {}

// Document is an in-memory DOCX package. Mutations apply to the parsed body;
// Write re-assembles the package copying every untouched part from the
// source archive.
type Document struct {
	Body Body

	source   []byte // original zip bytes
	startTag string // original <w:document ...> start tag, attributes intact
	media    []mediaPart
	relMax   int // highest rId seen in document.xml.rels
	drawingN int // docPr id counter for inline images
}

// Body is the document body: block items in document order plus the trailing
// section properties, kept raw.
type Body struct {
	Items  []BodyItem
	SectPr RawXML
}

// Paragraph is a w:p element. Props keeps the original w:pPr verbatim; Style
// carries the parsed paragraph style id (w:pStyle) for render heuristics.
type Paragraph struct {
	Props    RawXML
	Style    string
	Children []ParagraphChild
}

func (*Paragraph) isBodyItem() {}

// ParagraphChild is either *Run or RawXML.
type ParagraphChild interface {
	isParagraphChild()
}

func (RawXML) isParagraphChild() {}

// Run is a w:r element: character properties plus an ordered sequence of
// text, break, and raw (drawing, tab, ...) content.
type Run struct {
	Props    RunProps
	rawProps RawXML // original w:rPr; wins over Props when serializing
	Content  []RunContent
}

func (*Run) isParagraphChild() {}

// RunProps models the character formatting the pipeline reads or writes.
type RunProps struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // RRGGBB, empty inherits
}

func (p RunProps) zero() bool {
	return p == RunProps{}
}

// RunContentKind discriminates Run content entries.
type RunContentKind int

const (
	RunText RunContentKind = iota
	RunBreak
	RunRaw
)

// RunContent is one entry inside a run.
type RunContent struct {
	Kind RunContentKind
	Text string // RunText
	XML  string // RunRaw, verbatim
}

// Table is a w:tbl element. Props keeps w:tblPr and w:tblGrid raw.
type Table struct {
	Props RawXML
	Rows  []*TableRow
}

func (*Table) isBodyItem() {}

// TableRow is a w:tr element.
type TableRow struct {
	Props RawXML
	Cells []*TableCell
}

// TableCell is a w:tc element. Children interleave paragraphs with raw
// content (nested tables are preserved but not walked).
type TableCell struct {
	Props    RawXML
	Children []CellChild
}

// CellChild is either *Paragraph or RawXML.
type CellChild interface {
	isCellChild()
}

func (RawXML) isCellChild() {}
func (*Paragraph) isCellChild() {}

// Paragraphs returns the body-level paragraphs in document order, excluding
// table content.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, item := range d.Body.Items {
		if p, ok := item.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the body-level tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, item := range d.Body.Items {
		if t, ok := item.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// EachParagraph visits every paragraph the substitution pass touches: first
// the body paragraphs, then every table cell paragraph row-major, matching
// the order templates are scanned in.
func (d *Document) EachParagraph(fn func(*Paragraph)) {
	for _, p := range d.Paragraphs() {
		fn(p)
	}
	for _, t := range d.Tables() {
		for _, row := range t.Rows {
			for _, cell := range row.Cells {
				for _, p := range cell.Paragraphs() {
					fn(p)
				}
			}
		}
	}
}

// Paragraphs returns the cell's paragraphs in order.
func (c *TableCell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, child := range c.Children {
		if p, ok := child.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Text returns the cell text: non-empty paragraph texts joined with a single
// space. Blank spacer paragraphs contribute nothing.
func (c *TableCell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		if t := p.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Runs returns the paragraph's runs in order, skipping raw children.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, child := range p.Children {
		if r, ok := child.(*Run); ok {
			out = append(out, r)
		}
	}
	return out
}

// Text concatenates the visible text of all runs. Breaks contribute nothing,
// mirroring how placeholder scanning treats a paragraph as one flat string.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs() {
		b.WriteString(r.Text())
	}
	return b.String()
}

// ClearRuns removes every child while keeping the paragraph properties, the
// same contract as clearing a paragraph before re-populating it.
func (p *Paragraph) ClearRuns() {
	p.Children = nil
}

// AddRun appends an unformatted text run.
func (p *Paragraph) AddRun(text string) *Run {
	return p.AddFormattedRun(text, RunProps{})
}

// AddFormattedRun appends a text run carrying the given character properties.
func (p *Paragraph) AddFormattedRun(text string, props RunProps) *Run {
	r := &Run{
		Props:   props,
		Content: []RunContent{{Kind: RunText, Text: text}},
	}
	p.Children = append(p.Children, r)
	return r
}

// AddImageRun appends a run whose only content is the given inline drawing
// XML, as produced by Document.InlineImage.
func (p *Paragraph) AddImageRun(drawingXML string) *Run {
	r := &Run{Content: []RunContent{{Kind: RunRaw, XML: drawingXML}}}
	p.Children = append(p.Children, r)
	return r
}

// Text concatenates the run's text content.
func (r *Run) Text() string {
	var b strings.Builder
	for _, c := range r.Content {
		if c.Kind == RunText {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// SetText replaces the run's content with a single text entry, dropping
// breaks and raw content. Character properties are preserved.
func (r *Run) SetText(text string) {
	r.Content = []RunContent{{Kind: RunText, Text: text}}
}

// ReplaceText substitutes old with new inside the run's text content,
// leaving breaks and raw entries in place.
func (r *Run) ReplaceText(old, new string) {
	for i, c := range r.Content {
		if c.Kind == RunText {
			r.Content[i].Text = strings.ReplaceAll(c.Text, old, new)
		}
	}
}

// AddBreak appends a hard line break to the run.
func (r *Run) AddBreak() {
	r.Content = append(r.Content, RunContent{Kind: RunBreak})
}
