// Package orchestrator coordinates the full document pipeline: parse the
// template for its field schema, validate the submitted data, run the
// substitution and signature passes, and hand the generated document to the
// renderer that matches the requested format.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-docgen/pkg/generator"
	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/parser"
	"github.com/goliatone/go-docgen/pkg/render"
	"github.com/goliatone/go-docgen/pkg/renderers/docxout"
	"github.com/goliatone/go-docgen/pkg/renderers/pdf"
	"github.com/goliatone/go-docgen/pkg/renderers/preview"
	"github.com/goliatone/go-docgen/pkg/validate"
)

const defaultFormat = docxout.FormatDocx

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry, replacing the built-in set.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultFormat overrides the format used when a request omits an
// explicit Format field.
func WithDefaultFormat(name string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = name
	}
}

// WithValidation toggles input validation against the parsed field schema.
// Validation is on by default.
func WithValidation(enabled bool) Option {
	return func(o *Orchestrator) {
		o.validation = enabled
	}
}

// WithPDFCreationDate pins the creation timestamp of PDF output from the
// built-in registry, making PDF exports byte-reproducible.
func WithPDFCreationDate(t time.Time) Option {
	return func(o *Orchestrator) {
		o.pdfCreationDate = t
	}
}

// Orchestrator drives template inspection and document generation. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
type Orchestrator struct {
	registry        *render.Registry
	defaultFormat   string
	validation      bool
	pdfCreationDate time.Time
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultFormat: defaultFormat,
		validation:    true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to generate a document from a
// template.
type Request struct {
	// TemplatePath points at the DOCX template on disk.
	TemplatePath string

	// Data maps placeholder names to submitted values.
	Data map[string]any

	// SignaturePath, when set, is a single signature image applied to every
	// signature placeholder in the template.
	SignaturePath string

	// Signatures maps signature field names (or group prefixes) to one or
	// more image paths. Ignored when SignaturePath is set.
	Signatures map[string][]string

	// Format names the output renderer: docx, doc, pdf, or html. If empty,
	// the orchestrator falls back to the configured default format.
	Format string
}

// Result carries the rendered bytes alongside the content type the renderer
// declared for them.
type Result struct {
	Output      []byte
	ContentType string
	Format      string
}

// Inspect parses the template and returns its field schema without
// generating anything.
func (o *Orchestrator) Inspect(path string) (model.Schema, error) {
	return parser.ParseFile(path)
}

// Generate executes the parse, validate, substitute, sign, and render
// sequence and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if req.TemplatePath == "" {
		return Result{}, errors.New("orchestrator: template path is required")
	}

	renderer, err := o.rendererFor(req.Format)
	if err != nil {
		return Result{}, err
	}

	schema, err := parser.ParseFile(req.TemplatePath)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: parse template: %w", err)
	}

	if o.validation {
		if err := validate.Input(schema.Fields, req.Data); err != nil {
			return Result{}, fmt.Errorf("orchestrator: %w", err)
		}
	}

	gen, err := generator.New(req.TemplatePath, req.Data)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: %w", err)
	}
	gen.Substitute()

	if req.SignaturePath != "" {
		if err := gen.ApplySignature(req.SignaturePath); err != nil {
			return Result{}, fmt.Errorf("orchestrator: apply signature: %w", err)
		}
	} else if len(req.Signatures) > 0 {
		if err := gen.ApplyMultipleSignatures(req.Signatures); err != nil {
			return Result{}, fmt.Errorf("orchestrator: apply signatures: %w", err)
		}
	}

	output, err := renderer.Render(ctx, render.Request{
		TemplatePath: req.TemplatePath,
		Data:         req.Data,
		Signatures:   req.Signatures,
		Document:     gen.Document(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}

	return Result{
		Output:      output,
		ContentType: renderer.ContentType(),
		Format:      renderer.Name(),
	}, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultFormat
	}

	renderer, err := o.registry.Lookup(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: format %q: %w", target, err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry != nil {
		return
	}

	o.registry = render.NewRegistry()
	o.registry.MustRegister(docxout.NewDocx())
	o.registry.MustRegister(docxout.NewDoc())

	var pdfOptions []pdf.Option
	if !o.pdfCreationDate.IsZero() {
		pdfOptions = append(pdfOptions, pdf.WithCreationDate(o.pdfCreationDate))
	}
	o.registry.MustRegister(pdf.New(pdfOptions...))

	previewRenderer, err := preview.New()
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: preview renderer: %w", err)
		return
	}
	o.registry.MustRegister(previewRenderer)
}
