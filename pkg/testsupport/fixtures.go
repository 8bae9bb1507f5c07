// Package testsupport builds minimal DOCX fixtures in memory so package
// tests can exercise the real zip and WordprocessingML paths without binary
// files checked into the tree.
package testsupport

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`

	documentClose = `</w:body></w:document>`
)

// A tiny transparent PNG, 1x1 pixel. Enough for the image sizing code to
// read real IHDR dimensions.
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// DOCX builds a minimal package whose document body holds one plain
// paragraph per argument.
func DOCX(paragraphs ...string) []byte {
	var body strings.Builder
	for _, text := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		xml.EscapeText(&body, []byte(text))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	return DOCXWithBody(body.String())
}

// DOCXWithBody builds a package around a raw WordprocessingML body fragment,
// for fixtures that need formatted runs or tables.
func DOCXWithBody(bodyXML string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		data string
	}{
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentOpen + bodyXML + documentClose},
		{"[Content_Types].xml", contentTypesXML},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(part.data)); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteDOCX drops the package bytes into the test temp dir and returns the
// path.
func WriteDOCX(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.docx")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// PNG returns the bytes of a valid 1x1 PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(pngBase64)
	if err != nil {
		t.Fatalf("decode png fixture: %v", err)
	}
	return data
}

// WritePNG drops a 1x1 PNG into the test temp dir and returns the path.
func WritePNG(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "signature.png")
	if err := os.WriteFile(path, PNG(t), 0o644); err != nil {
		t.Fatalf("write png fixture: %v", err)
	}
	return path
}
