package docx_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/testsupport"
)

func TestOpenBytesParagraphText(t *testing.T) {
	doc, err := docx.OpenBytes(testsupport.DOCX("Hello {{name|text|Name}}", "Second paragraph"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	paragraphs := doc.Paragraphs()
	if len(paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paragraphs))
	}
	if got := paragraphs[0].Text(); got != "Hello {{name|text|Name}}" {
		t.Errorf("paragraph text = %q", got)
	}
}

func TestOpenBytesRunFormatting(t *testing.T) {
	body := `<w:p>` +
		`<w:r><w:rPr><w:b/><w:i/><w:color w:val="ff0000"/></w:rPr><w:t>styled</w:t></w:r>` +
		`<w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t>plain</w:t></w:r>` +
		`</w:p>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	runs := doc.Paragraphs()[0].Runs()
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].Props.Bold || !runs[0].Props.Italic {
		t.Errorf("first run props = %+v, want bold italic", runs[0].Props)
	}
	if runs[0].Props.Color != "FF0000" {
		t.Errorf("first run color = %q, want FF0000", runs[0].Props.Color)
	}
	if runs[1].Props.Bold {
		t.Error("explicit w:val=0 should read as not bold")
	}
}

func TestOpenBytesParagraphStyle(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := doc.Paragraphs()[0].Style; got != "Heading1" {
		t.Errorf("style = %q, want Heading1", got)
	}
}

func TestOpenBytesTable(t *testing.T) {
	body := `<w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Name</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>amount</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>10</w:t></w:r></w:p></w:tc></w:tr>` +
		`</w:tbl>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	tables := doc.Tables()
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	if len(tables[0].Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(tables[0].Rows))
	}
	if got := tables[0].Rows[0].Cells[1].Text(); got != "Value" {
		t.Errorf("cell text = %q, want Value", got)
	}
}

func TestTableCellTextSkipsBlankParagraphs(t *testing.T) {
	body := `<w:tbl><w:tr><w:tc>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>first</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>second</w:t></w:r></w:p>` +
		`</w:tc></w:tr></w:tbl>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if got := doc.Tables()[0].Rows[0].Cells[0].Text(); got != "first second" {
		t.Errorf("cell text = %q, want %q", got, "first second")
	}
}

func TestEachParagraphVisitsBodyThenTables(t *testing.T) {
	body := `<w:p><w:r><w:t>body</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var visited []string
	doc.EachParagraph(func(p *docx.Paragraph) {
		visited = append(visited, p.Text())
	})
	if len(visited) != 2 || visited[0] != "body" || visited[1] != "cell" {
		t.Errorf("visit order = %v, want [body cell]", visited)
	}
}

func TestRoundTripPreservesText(t *testing.T) {
	doc, err := docx.OpenBytes(testsupport.DOCX("alpha & <beta>", "gamma"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	reopened, err := docx.OpenBytes(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Paragraphs()[0].Text(); got != "alpha & <beta>" {
		t.Errorf("round-tripped text = %q", got)
	}
	if got := reopened.Paragraphs()[1].Text(); got != "gamma" {
		t.Errorf("round-tripped text = %q", got)
	}
}

func TestRoundTripPreservesFormatting(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>bold</w:t></w:r></w:p>`
	doc, err := docx.OpenBytes(testsupport.DOCXWithBody(body))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	reopened, err := docx.OpenBytes(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.Paragraphs()[0].Runs()[0].Props.Bold {
		t.Error("bold flag lost across round trip")
	}
}

func TestClearAndAddRuns(t *testing.T) {
	doc, err := docx.OpenBytes(testsupport.DOCX("old"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	p := doc.Paragraphs()[0]
	p.ClearRuns()
	p.AddFormattedRun("new", docx.RunProps{Bold: true, Color: "008000"})

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	reopened, err := docx.OpenBytes(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	run := reopened.Paragraphs()[0].Runs()[0]
	if run.Text() != "new" {
		t.Errorf("text = %q, want new", run.Text())
	}
	if !run.Props.Bold || run.Props.Color != "008000" {
		t.Errorf("props = %+v, want bold green", run.Props)
	}
}

func TestInlineImageAddsMediaAndRelationships(t *testing.T) {
	doc, err := docx.OpenBytes(testsupport.DOCX("sign here"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	png := testsupport.WritePNG(t)
	drawing, err := doc.InlineImage(png, docx.EMU(2))
	if err != nil {
		t.Fatalf("inline image: %v", err)
	}
	if !strings.Contains(drawing, "r:embed=") {
		t.Errorf("drawing XML has no relationship reference: %s", drawing)
	}
	doc.Paragraphs()[0].AddImageRun(drawing)

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	parts := zipParts(t, out)
	media, ok := parts["word/media/docgen1.png"]
	if !ok {
		t.Fatalf("media part missing, have %v", partNames(parts))
	}
	if len(media) == 0 {
		t.Error("media part is empty")
	}

	rels := string(parts["word/_rels/document.xml.rels"])
	if !strings.Contains(rels, "media/docgen1.png") {
		t.Errorf("relationships not patched: %s", rels)
	}

	types := string(parts["[Content_Types].xml"])
	if !strings.Contains(types, "image/png") {
		t.Errorf("content types not patched: %s", types)
	}

	// The document must still parse with the drawing in place.
	if _, err := docx.OpenBytes(out); err != nil {
		t.Fatalf("reopen with image: %v", err)
	}
}

func TestEMU(t *testing.T) {
	if got := docx.EMU(2); got != 1828800 {
		t.Errorf("EMU(2) = %d, want 1828800", got)
	}
}

func zipParts(t *testing.T, data []byte) map[string][]byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read package: %v", err)
	}
	parts := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read part %s: %v", f.Name, err)
		}
		parts[f.Name] = content
	}
	return parts
}

func partNames(parts map[string][]byte) []string {
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	return names
}
