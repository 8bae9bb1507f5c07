package validate

import (
	"testing"

	"github.com/goliatone/go-docgen/pkg/model"
)

func floatPtr(v float64) *float64 { return &v }

func baseFields() []model.Field {
	return []model.Field{
		{Name: "employee_name", Type: model.FieldTypeText, Validation: "required"},
		{Name: "amount", Type: model.FieldTypeNumber, MinValue: floatPtr(1), MaxValue: floatPtr(100)},
		{Name: "priority", Type: model.FieldTypeSelect, Options: []string{"Low", "High"}},
		{Name: "agreed", Type: model.FieldTypeCheckbox},
		{Name: "manager_1", Type: model.FieldTypeSignature},
		{Name: "manager_1_name", Type: model.FieldTypeText, Validation: "required,autofilled", Autofilled: true},
	}
}

func TestInputValid(t *testing.T) {
	data := map[string]any{
		"employee_name": "Ada",
		"amount":        50,
		"priority":      "High",
		"agreed":        true,
	}
	if err := Input(baseFields(), data); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestInputMissingRequired(t *testing.T) {
	if err := Input(baseFields(), map[string]any{"amount": 50}); err == nil {
		t.Fatal("missing required field accepted")
	}
}

func TestInputNumberBounds(t *testing.T) {
	data := map[string]any{"employee_name": "Ada", "amount": 1000}
	if err := Input(baseFields(), data); err == nil {
		t.Fatal("out-of-range number accepted")
	}

	data["amount"] = 100
	if err := Input(baseFields(), data); err != nil {
		t.Fatalf("boundary value rejected: %v", err)
	}
}

func TestInputEnum(t *testing.T) {
	data := map[string]any{"employee_name": "Ada", "priority": "Urgent"}
	if err := Input(baseFields(), data); err == nil {
		t.Fatal("value outside the options list accepted")
	}
}

func TestAutofilledNotRequired(t *testing.T) {
	// manager_1_name is required in the template but autofilled by the
	// system, so callers may omit it.
	if err := Input(baseFields(), map[string]any{"employee_name": "Ada"}); err != nil {
		t.Fatalf("autofilled field demanded from caller: %v", err)
	}
}

func TestSignatureFieldsExcluded(t *testing.T) {
	schema := SchemaFor(baseFields())
	if _, ok := schema.Properties["manager_1"]; ok {
		t.Error("signature slot leaked into the validation schema")
	}
	if _, ok := schema.Properties["employee_name"]; !ok {
		t.Error("text field missing from the validation schema")
	}
}

func TestInputNilData(t *testing.T) {
	fields := []model.Field{{Name: "note", Type: model.FieldTypeText}}
	if err := Input(fields, nil); err != nil {
		t.Fatalf("nil data with no required fields rejected: %v", err)
	}
}
