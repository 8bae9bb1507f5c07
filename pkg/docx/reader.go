package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const documentPart = "word/document.xml"
const documentRelsPart = "word/_rels/document.xml.rels"

// Open reads a DOCX package from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("docx: open template: %w", err)
	}
	doc, err := OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("docx: open template %s: %w", path, err)
	}
	return doc, nil
}

// OpenReader reads a DOCX package from a stream.
func OpenReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("docx: read template: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a DOCX package held in memory. The byte slice is retained:
// untouched archive parts are copied from it verbatim on Write.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("docx: read package: %w", err)
	}

	var docXML []byte
	var relsXML []byte
	for _, f := range zr.File {
		switch f.Name {
		case documentPart, documentRelsPart:
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("docx: open part %s: %w", f.Name, err)
			}
			part, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("docx: read part %s: %w", f.Name, err)
			}
			if f.Name == documentPart {
				docXML = part
			} else {
				relsXML = part
			}
		}
	}
	if docXML == nil {
		return nil, errors.New("docx: package has no word/document.xml")
	}

	doc, err := parseDocument(docXML)
	if err != nil {
		return nil, err
	}
	doc.source = data
	doc.relMax = maxRelID(relsXML)
	return doc, nil
}

var relIDPattern = regexp.MustCompile(`Id="rId(\d+)"`)

func maxRelID(relsXML []byte) int {
	max := 0
	for _, m := range relIDPattern.FindAllSubmatch(relsXML, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
			max = n
		}
	}
	return max
}

func parseDocument(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	doc := &Document{}

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx: parse document.xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "document":
			doc.startTag = string(data[off:dec.InputOffset()])
		case "body":
			body, err := parseBody(dec, data)
			if err != nil {
				return nil, err
			}
			doc.Body = body
		default:
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("docx: parse document.xml: %w", err)
			}
		}
	}
	if doc.startTag == "" {
		return nil, errors.New("docx: document.xml has no w:document root")
	}
	return doc, nil
}

func parseBody(dec *xml.Decoder, data []byte) (Body, error) {
	var body Body
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return body, fmt.Errorf("docx: parse body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(dec, data)
				if err != nil {
					return body, err
				}
				body.Items = append(body.Items, p)
			case "tbl":
				tbl, err := parseTable(dec, data)
				if err != nil {
					return body, err
				}
				body.Items = append(body.Items, tbl)
			case "sectPr":
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return body, err
				}
				body.SectPr = raw
			default:
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return body, err
				}
				body.Items = append(body.Items, raw)
			}
		case xml.EndElement:
			return body, nil
		}
	}
}

var styleIDPattern = regexp.MustCompile(`pStyle\b[^>]*?val="([^"]+)"`)

func parseParagraph(dec *xml.Decoder, data []byte) (*Paragraph, error) {
	p := &Paragraph{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("docx: parse paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				p.Props = raw
				if m := styleIDPattern.FindStringSubmatch(string(raw)); m != nil {
					p.Style = m[1]
				}
			case "r":
				run, err := parseRun(dec, data, t)
				if err != nil {
					return nil, err
				}
				p.Children = append(p.Children, run)
			default:
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				p.Children = append(p.Children, raw)
			}
		case xml.EndElement:
			return p, nil
		}
	}
}

func parseRun(dec *xml.Decoder, data []byte, _ xml.StartElement) (*Run, error) {
	r := &Run{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("docx: parse run: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.rawProps = raw
				r.Props = parseRunProps(raw)
			case "t":
				text, err := collectText(dec)
				if err != nil {
					return nil, err
				}
				r.Content = append(r.Content, RunContent{Kind: RunText, Text: text})
			case "br":
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				if len(t.Attr) == 0 {
					r.Content = append(r.Content, RunContent{Kind: RunBreak})
				} else {
					r.Content = append(r.Content, RunContent{Kind: RunRaw, XML: string(raw)})
				}
			default:
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.Content = append(r.Content, RunContent{Kind: RunRaw, XML: string(raw)})
			}
		case xml.EndElement:
			return r, nil
		}
	}
}

func collectText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("docx: parse text node: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return "", fmt.Errorf("docx: parse text node: %w", err)
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

func parseTable(dec *xml.Decoder, data []byte) (*Table, error) {
	tbl := &Table{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("docx: parse table: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				row, err := parseTableRow(dec, data)
				if err != nil {
					return nil, err
				}
				tbl.Rows = append(tbl.Rows, row)
			default:
				// tblPr, tblGrid and anything else stays verbatim.
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.Props += raw
			}
		case xml.EndElement:
			return tbl, nil
		}
	}
}

func parseTableRow(dec *xml.Decoder, data []byte) (*TableRow, error) {
	row := &TableRow{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("docx: parse table row: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				cell, err := parseTableCell(dec, data)
				if err != nil {
					return nil, err
				}
				row.Cells = append(row.Cells, cell)
			default:
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				row.Props += raw
			}
		case xml.EndElement:
			return row, nil
		}
	}
}

func parseTableCell(dec *xml.Decoder, data []byte) (*TableCell, error) {
	cell := &TableCell{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("docx: parse table cell: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.Props = raw
			case "p":
				p, err := parseParagraph(dec, data)
				if err != nil {
					return nil, err
				}
				cell.Children = append(cell.Children, p)
			default:
				// Nested tables and exotic cell content are preserved raw.
				raw, err := captureRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.Children = append(cell.Children, raw)
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}

// captureRaw slices the source bytes of the element whose start tag was read
// at offset start, consuming the decoder through its matching end tag. The
// slice keeps the original namespace prefixes, which stay valid because the
// serialized document re-emits the original root start tag.
func captureRaw(dec *xml.Decoder, data []byte, start int64) (RawXML, error) {
	if err := dec.Skip(); err != nil {
		return "", fmt.Errorf("docx: capture element: %w", err)
	}
	return RawXML(data[start:dec.InputOffset()]), nil
}

type runPropsXML struct {
	Bold      *toggleXML `xml:"b"`
	Italic    *toggleXML `xml:"i"`
	Underline *valXML    `xml:"u"`
	Strike    *toggleXML `xml:"strike"`
	Color     *valXML    `xml:"color"`
}

type toggleXML struct {
	Val string `xml:"val,attr"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

func parseRunProps(raw RawXML) RunProps {
	var parsed runPropsXML
	// Unbound w: prefixes inside the fragment are tolerated by encoding/xml;
	// matching is on local names only.
	if err := xml.Unmarshal([]byte(raw), &parsed); err != nil {
		return RunProps{}
	}
	props := RunProps{
		Bold:   toggleOn(parsed.Bold),
		Italic: toggleOn(parsed.Italic),
		Strike: toggleOn(parsed.Strike),
	}
	if parsed.Underline != nil && parsed.Underline.Val != "none" && parsed.Underline.Val != "" {
		props.Underline = true
	}
	if parsed.Color != nil && parsed.Color.Val != "" && parsed.Color.Val != "auto" {
		props.Color = strings.ToUpper(parsed.Color.Val)
	}
	return props
}

func toggleOn(t *toggleXML) bool {
	if t == nil {
		return false
	}
	switch t.Val {
	case "0", "false", "none", "off":
		return false
	}
	return true
}
