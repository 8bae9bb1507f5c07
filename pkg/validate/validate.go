// Package validate checks submitted input data against a parsed template
// schema before generation. The field definitions are projected into an
// OpenAPI object schema (number bounds, option enums, required list) and
// the data is validated as a JSON object, which is how the surrounding API
// receives it.
package validate

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docgen/pkg/model"
)

// SchemaFor builds the OpenAPI object schema equivalent of the parsed
// fields. Signature slots and empty names are skipped: signatures are
// resolved by image injection, never by submitted values. Autofilled fields
// are derived server-side and therefore never required from the caller.
func SchemaFor(fields []model.Field) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Properties = make(openapi3.Schemas, len(fields))

	for _, f := range fields {
		if f.Name == "" || f.Type == model.FieldTypeSignature {
			continue
		}

		var prop *openapi3.Schema
		switch f.Type {
		case model.FieldTypeNumber:
			prop = openapi3.NewFloat64Schema()
			prop.Min = f.MinValue
			prop.Max = f.MaxValue
		case model.FieldTypeSelect, model.FieldTypeRadio:
			prop = openapi3.NewStringSchema()
			for _, opt := range f.Options {
				prop.Enum = append(prop.Enum, opt)
			}
		case model.FieldTypeDate:
			prop = openapi3.NewStringSchema()
			prop.Format = "date"
		case model.FieldTypeCheckbox:
			// Checkboxes arrive as "on"/"true"/bool depending on the client;
			// the generator normalizes them, so any shape is acceptable.
			prop = openapi3.NewSchema()
		default:
			prop = openapi3.NewStringSchema()
		}
		prop.Title = f.Label
		schema.Properties[f.Name] = openapi3.NewSchemaRef("", prop)

		if f.Required() && !f.Autofilled {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

// Input validates data against the schema derived from fields. The data is
// round-tripped through JSON first so typed Go values (int, custom strings)
// compare the way a decoded request body would.
func Input(fields []model.Field, data map[string]any) error {
	schema := SchemaFor(fields)

	normalized, err := normalize(data)
	if err != nil {
		return fmt.Errorf("validate: normalize input: %w", err)
	}
	if err := schema.VisitJSON(normalized); err != nil {
		return fmt.Errorf("validate: input data: %w", err)
	}
	return nil
}

func normalize(data map[string]any) (map[string]any, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
