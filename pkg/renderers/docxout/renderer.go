// Package docxout renders the generated document as a DOCX byte stream. It
// also backs the legacy "doc" export: true binary .doc conversion is not
// performed. The product ships DOCX bytes under the .doc label, and the two
// paths stay byte-identical by construction.
package docxout

import (
	"context"
	"fmt"

	"github.com/goliatone/go-docgen/pkg/generator"
	"github.com/goliatone/go-docgen/pkg/render"
)

const (
	// FormatDocx and FormatDoc are the registry names.
	FormatDocx = "docx"
	FormatDoc  = "doc"

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docContentType  = "application/msword"
)

// Renderer serializes a generated document.
type Renderer struct {
	name        string
	contentType string
}

// NewDocx returns the DOCX renderer.
func NewDocx() *Renderer {
	return &Renderer{name: FormatDocx, contentType: docxContentType}
}

// NewDoc returns the legacy-label renderer. Output bytes are identical to
// the DOCX renderer's.
func NewDoc() *Renderer {
	return &Renderer{name: FormatDoc, contentType: docContentType}
}

func (r *Renderer) Name() string {
	return r.name
}

func (r *Renderer) ContentType() string {
	return r.contentType
}

// Render serializes req.Document, generating it first when the caller only
// supplied the template and data.
func (r *Renderer) Render(_ context.Context, req render.Request) ([]byte, error) {
	doc := req.Document
	if doc == nil {
		gen, err := generator.New(req.TemplatePath, req.Data)
		if err != nil {
			return nil, fmt.Errorf("docxout: %w", err)
		}
		gen.Substitute()
		if err := gen.ApplyMultipleSignatures(req.Signatures); err != nil {
			return nil, fmt.Errorf("docxout: apply signatures: %w", err)
		}
		doc = gen.Document()
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("docxout: serialize: %w", err)
	}
	return out, nil
}
