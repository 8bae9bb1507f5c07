package orchestrator_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
	"github.com/goliatone/go-docgen/pkg/testsupport"
)

func templatePath(t *testing.T) string {
	t.Helper()
	return testsupport.WriteDOCX(t, testsupport.DOCX(
		"Employee: {{employee_name|text|Employee Name|required}}",
		"Sign: {{manager_1|signature|Manager}}",
	))
}

func TestGenerateDocx(t *testing.T) {
	o := orchestrator.New()

	result, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{"employee_name": "Ada"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Format != "docx" {
		t.Errorf("format = %q, want docx", result.Format)
	}

	doc, err := docx.OpenBytes(result.Output)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	if got := doc.Paragraphs()[0].Text(); got != "Employee: Ada" {
		t.Errorf("paragraph = %q", got)
	}
}

func TestGeneratePDF(t *testing.T) {
	o := orchestrator.New()

	result, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{"employee_name": "Ada"},
		Format:       "pdf",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(result.Output, []byte("%PDF")) {
		t.Error("pdf output missing header")
	}
	if result.ContentType != "application/pdf" {
		t.Errorf("content type = %q", result.ContentType)
	}
}

func TestGenerateWithSignature(t *testing.T) {
	o := orchestrator.New()

	result, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath:  templatePath(t),
		Data:          map[string]any{"employee_name": "Ada"},
		SignaturePath: testsupport.WritePNG(t),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc, err := docx.OpenBytes(result.Output)
	if err != nil {
		t.Fatalf("reopen output: %v", err)
	}
	doc.EachParagraph(func(p *docx.Paragraph) {
		if strings.Contains(p.Text(), "{{") {
			t.Errorf("unresolved placeholder: %q", p.Text())
		}
	})
}

func TestGenerateValidationFailure(t *testing.T) {
	o := orchestrator.New()

	_, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{},
	})
	if err == nil {
		t.Fatal("missing required field accepted")
	}
	if !strings.Contains(err.Error(), "employee_name") {
		t.Errorf("error does not name the failing field: %v", err)
	}
}

func TestGenerateValidationDisabled(t *testing.T) {
	o := orchestrator.New(orchestrator.WithValidation(false))

	if _, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{},
	}); err != nil {
		t.Fatalf("generate with validation disabled: %v", err)
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	o := orchestrator.New()

	_, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{"employee_name": "Ada"},
		Format:       "rtf",
	})
	if err == nil {
		t.Fatal("unknown format accepted")
	}
}

func TestGenerateRequiresTemplate(t *testing.T) {
	o := orchestrator.New()
	if _, err := o.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatal("empty template path accepted")
	}
}

func TestInspect(t *testing.T) {
	o := orchestrator.New()

	schema, err := o.Inspect(templatePath(t))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if _, ok := schema.Field("employee_name"); !ok {
		t.Error("employee_name missing from schema")
	}
	if _, ok := schema.Group("manager"); !ok {
		t.Error("manager signature group missing from schema")
	}
}

func TestDefaultFormatOverride(t *testing.T) {
	o := orchestrator.New(orchestrator.WithDefaultFormat("html"))

	result, err := o.Generate(context.Background(), orchestrator.Request{
		TemplatePath: templatePath(t),
		Data:         map[string]any{"employee_name": "Ada"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Format != "html" {
		t.Errorf("format = %q, want html", result.Format)
	}
	if !strings.Contains(string(result.Output), "Employee: Ada") {
		t.Errorf("html output missing substituted text:\n%s", result.Output)
	}
}
