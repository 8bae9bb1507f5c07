package docgen_test

import (
	"context"
	"testing"

	docgen "github.com/goliatone/go-docgen"
	"github.com/goliatone/go-docgen/pkg/testsupport"
)

func TestParseTemplate(t *testing.T) {
	path := testsupport.WriteDOCX(t, testsupport.DOCX("{{field|text|Field|required}}"))

	schema, err := docgen.ParseTemplate(path)
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	field, ok := schema.Field("field")
	if !ok || !field.Required() {
		t.Errorf("schema = %+v", schema)
	}
}

func TestGenerate(t *testing.T) {
	path := testsupport.WriteDOCX(t, testsupport.DOCX("Hi {{name|text|Name}}"))

	result, err := docgen.Generate(context.Background(), docgen.Request{
		TemplatePath: path,
		Data:         map[string]any{"name": "there"},
		Format:       docgen.FormatDocx,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(result.Output) == 0 {
		t.Error("empty output")
	}
}
