package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	relsNS       = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentNS    = "http://schemas.openxmlformats.org/package/2006/content-types"
	imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Bytes serializes the document into a fresh DOCX package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write re-assembles the package: word/document.xml is regenerated from the
// parsed body, relationship and content-type parts are patched when media was
// added, and every other part is copied from the source archive untouched.
func (d *Document) Write(w io.Writer) error {
	zr, err := zip.NewReader(bytes.NewReader(d.source), int64(len(d.source)))
	if err != nil {
		return fmt.Errorf("docx: reopen source package: %w", err)
	}

	zw := zip.NewWriter(w)
	sawRels := false
	for _, f := range zr.File {
		var content []byte
		switch {
		case f.Name == documentPart:
			content = []byte(d.serializeDocument())
		case f.Name == documentRelsPart && len(d.media) > 0:
			sawRels = true
			orig, err := readZipPart(f)
			if err != nil {
				return err
			}
			content, err = d.patchRelationships(orig)
			if err != nil {
				return err
			}
		case f.Name == "[Content_Types].xml" && len(d.media) > 0:
			orig, err := readZipPart(f)
			if err != nil {
				return err
			}
			content, err = d.patchContentTypes(orig)
			if err != nil {
				return err
			}
		}

		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("docx: create part %s: %w", f.Name, err)
		}
		if content != nil {
			if _, err := fw.Write(content); err != nil {
				return fmt.Errorf("docx: write part %s: %w", f.Name, err)
			}
			continue
		}
		fr, err := f.Open()
		if err != nil {
			return fmt.Errorf("docx: open part %s: %w", f.Name, err)
		}
		_, err = io.Copy(fw, fr)
		fr.Close()
		if err != nil {
			return fmt.Errorf("docx: copy part %s: %w", f.Name, err)
		}
	}

	if len(d.media) > 0 && !sawRels {
		fw, err := zw.Create(documentRelsPart)
		if err != nil {
			return fmt.Errorf("docx: create part %s: %w", documentRelsPart, err)
		}
		content, err := d.patchRelationships(nil)
		if err != nil {
			return err
		}
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("docx: write part %s: %w", documentRelsPart, err)
		}
	}

	for _, m := range d.media {
		fw, err := zw.Create("word/media/" + m.name)
		if err != nil {
			return fmt.Errorf("docx: create media %s: %w", m.name, err)
		}
		if _, err := fw.Write(m.data); err != nil {
			return fmt.Errorf("docx: write media %s: %w", m.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: close package: %w", err)
	}
	return nil
}

func readZipPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("docx: open part %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("docx: read part %s: %w", f.Name, err)
	}
	return data, nil
}

type relationshipsXML struct {
	XMLName xml.Name          `xml:"Relationships"`
	Xmlns   string            `xml:"xmlns,attr"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func (d *Document) patchRelationships(orig []byte) ([]byte, error) {
	rels := relationshipsXML{Xmlns: relsNS}
	if len(orig) > 0 {
		if err := xml.Unmarshal(orig, &rels); err != nil {
			return nil, fmt.Errorf("docx: parse relationships: %w", err)
		}
		rels.Xmlns = relsNS
	}
	for _, m := range d.media {
		rels.Rels = append(rels.Rels, relationshipXML{
			ID:     m.relID,
			Type:   imageRelType,
			Target: "media/" + m.name,
		})
	}
	out, err := xml.Marshal(&rels)
	if err != nil {
		return nil, fmt.Errorf("docx: marshal relationships: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	Xmlns     string            `xml:"xmlns,attr"`
	Defaults  []ctDefaultXML    `xml:"Default"`
	Overrides []ctOverrideXML   `xml:"Override"`
}

type ctDefaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (d *Document) patchContentTypes(orig []byte) ([]byte, error) {
	var types contentTypesXML
	if err := xml.Unmarshal(orig, &types); err != nil {
		return nil, fmt.Errorf("docx: parse content types: %w", err)
	}
	types.Xmlns = contentNS

	have := make(map[string]bool, len(types.Defaults))
	for _, def := range types.Defaults {
		have[def.Extension] = true
	}
	for _, m := range d.media {
		if !have[m.ext] {
			types.Defaults = append(types.Defaults, ctDefaultXML{Extension: m.ext, ContentType: m.contentType})
			have[m.ext] = true
		}
	}
	out, err := xml.Marshal(&types)
	if err != nil {
		return nil, fmt.Errorf("docx: marshal content types: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func (d *Document) serializeDocument() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(d.startTag)
	b.WriteString("<w:body>")
	for _, item := range d.Body.Items {
		switch it := item.(type) {
		case *Paragraph:
			writeParagraph(&b, it)
		case *Table:
			writeTable(&b, it)
		case RawXML:
			b.WriteString(string(it))
		}
	}
	b.WriteString(string(d.Body.SectPr))
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func writeParagraph(b *strings.Builder, p *Paragraph) {
	b.WriteString("<w:p>")
	b.WriteString(string(p.Props))
	for _, child := range p.Children {
		switch c := child.(type) {
		case *Run:
			writeRun(b, c)
		case RawXML:
			b.WriteString(string(c))
		}
	}
	b.WriteString("</w:p>")
}

func writeRun(b *strings.Builder, r *Run) {
	b.WriteString("<w:r>")
	if r.rawProps != "" {
		b.WriteString(string(r.rawProps))
	} else if !r.Props.zero() {
		writeRunProps(b, r.Props)
	}
	for _, c := range r.Content {
		switch c.Kind {
		case RunText:
			b.WriteString(`<w:t xml:space="preserve">`)
			xml.EscapeText(b, []byte(c.Text))
			b.WriteString("</w:t>")
		case RunBreak:
			b.WriteString("<w:br/>")
		case RunRaw:
			b.WriteString(c.XML)
		}
	}
	b.WriteString("</w:r>")
}

func writeRunProps(b *strings.Builder, props RunProps) {
	b.WriteString("<w:rPr>")
	if props.Bold {
		b.WriteString("<w:b/>")
	}
	if props.Italic {
		b.WriteString("<w:i/>")
	}
	if props.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if props.Strike {
		b.WriteString("<w:strike/>")
	}
	if props.Color != "" {
		fmt.Fprintf(b, `<w:color w:val="%s"/>`, props.Color)
	}
	b.WriteString("</w:rPr>")
}

func writeTable(b *strings.Builder, t *Table) {
	b.WriteString("<w:tbl>")
	b.WriteString(string(t.Props))
	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		b.WriteString(string(row.Props))
		for _, cell := range row.Cells {
			b.WriteString("<w:tc>")
			b.WriteString(string(cell.Props))
			for _, child := range cell.Children {
				switch c := child.(type) {
				case *Paragraph:
					writeParagraph(b, c)
				case RawXML:
					b.WriteString(string(c))
				}
			}
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}
