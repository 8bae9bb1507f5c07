// Package render defines the output contract shared by the document
// renderers and the registry that holds them.
package render

import (
	"context"

	"github.com/goliatone/go-docgen/pkg/docx"
)

// Request carries everything a renderer may need. Document is the generated
// (substituted, signed) instance prepared by the caller; renderers that must
// not observe those mutations (the PDF path reloads the template fresh on
// every call) work from TemplatePath and Data instead.
type Request struct {
	TemplatePath string
	Data         map[string]any
	Signatures   map[string][]string
	Document     *docx.Document
}

// Renderer converts a generated document into one output representation
// (DOCX bytes, PDF bytes, an HTML fragment, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, req Request) ([]byte, error)
}
