// Package docgen turns DOCX templates with {{name|type|label|validation}}
// placeholders into filled documents. The root package re-exports the pieces
// most callers need: template inspection, document generation, and the
// format names understood by the built-in renderer registry.
package docgen

import (
	"context"

	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
	"github.com/goliatone/go-docgen/pkg/parser"
	"github.com/goliatone/go-docgen/pkg/renderers/docxout"
)

// Field describes a single input derived from a template placeholder.
type Field = model.Field

// SignatureGroup describes related signature slots sharing a numeric-suffix
// prefix.
type SignatureGroup = model.SignatureGroup

// Schema is the parsed field and signature-group layout of a template.
type Schema = model.Schema

// Request describes one generation run; alias exported via the root package
// for convenience.
type Request = orchestrator.Request

// Result carries rendered bytes plus their content type.
type Result = orchestrator.Result

// Output format names registered by default.
const (
	FormatDocx = docxout.FormatDocx
	FormatDoc  = docxout.FormatDoc
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// ParseTemplate inspects a DOCX template and returns the fields and
// signature groups its placeholders declare.
func ParseTemplate(path string) (Schema, error) {
	return parser.ParseFile(path)
}

// Generate runs the whole pipeline with default wiring. It is the simplest
// entry point for callers that just want output bytes in one call.
func Generate(ctx context.Context, req Request, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Generate(ctx, req)
}
