package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultLabel(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"employee_name", "Employee Name"},
		{"EMPLOYEE_NAME", "Employee Name"},
		{"amount", "Amount"},
		{"approved__by", "Approved By"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DefaultLabel(tc.name); got != tc.want {
			t.Errorf("DefaultLabel(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestHasRule(t *testing.T) {
	if !HasRule("Required,options:a,b", RuleRequired) {
		t.Error("expected required flag to match case-insensitively")
	}
	if HasRule("options:a,b", RuleRequired) {
		t.Error("did not expect required flag")
	}
	if !HasRule("AUTOFILLED", RuleAutofilled) {
		t.Error("expected autofilled flag to match case-insensitively")
	}
}

func TestParseOptions(t *testing.T) {
	got := ParseOptions("required,options:Low, Medium ,High")
	want := []string{"Low", "Medium", "High"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	if ParseOptions("required") != nil {
		t.Error("expected nil options when the rule is absent")
	}
}

func TestParseBounds(t *testing.T) {
	min := ParseMin("required,min:1.5,max:10")
	if min == nil || *min != 1.5 {
		t.Fatalf("ParseMin = %v, want 1.5", min)
	}
	max := ParseMax("required,min:1.5,max:10")
	if max == nil || *max != 10 {
		t.Fatalf("ParseMax = %v, want 10", max)
	}

	if got := ParseMin("min:abc"); got != nil {
		t.Errorf("unparseable min should be nil, got %v", *got)
	}
	if got := ParseMax("min:1"); got != nil {
		t.Errorf("absent max should be nil, got %v", *got)
	}
}

func TestFieldRequired(t *testing.T) {
	if !(Field{Validation: "required"}).Required() {
		t.Error("expected field to be required")
	}
	if (Field{Validation: "options:a"}).Required() {
		t.Error("did not expect field to be required")
	}
}

func TestNormalizeCheckbox(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"true", "Yes"},
		{"True", "Yes"},
		{"1", "Yes"},
		{"yes", "Yes"},
		{"on", "Yes"},
		{"false", "No"},
		{"0", "No"},
		{"banana", "No"},
		{"", "No"},
	}
	for _, tc := range cases {
		if got := NormalizeCheckbox(tc.raw); got != tc.want {
			t.Errorf("NormalizeCheckbox(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSchemaAccessors(t *testing.T) {
	schema := Schema{
		Fields: []Field{
			{Name: "employee_name", Type: FieldTypeText},
			{Name: "manager_1", Type: FieldTypeSignature},
			{Name: "", Type: FieldTypeText},
		},
		SignatureGroups: []SignatureGroup{{Prefix: "manager"}},
	}

	if _, ok := schema.Field("employee_name"); !ok {
		t.Error("expected to find employee_name")
	}
	if _, ok := schema.Field("missing"); ok {
		t.Error("did not expect to find missing")
	}
	if _, ok := schema.Group("manager"); !ok {
		t.Error("expected to find manager group")
	}

	inputs := schema.InputFields()
	if len(inputs) != 1 || inputs[0].Name != "employee_name" {
		t.Errorf("InputFields = %v, want just employee_name", inputs)
	}
}
