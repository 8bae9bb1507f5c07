package model

import "strings"

// FieldType is the placeholder kind declared in a template token. The set is
// open-ended: values outside the constants below pass through unchanged so
// template authors can introduce new kinds without breaking the parser.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeSelect    FieldType = "select"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeDate      FieldType = "date"
	FieldTypeSignature FieldType = "signature"
)

// Field describes a single placeholder extracted from a template. Instances
// are built fresh on every parse and never mutated afterwards; callers use
// them to render input forms and to drive validation.
type Field struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Label      string    `json:"label" yaml:"label"`
	Validation string    `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options    []string  `json:"options,omitempty" yaml:"options,omitempty"`
	MinValue   *float64  `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue   *float64  `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Autofilled bool      `json:"is_autofilled" yaml:"is_autofilled"`
}

// Required reports whether the field's validation string marks it mandatory.
func (f Field) Required() bool {
	return HasRule(f.Validation, RuleRequired)
}

// SignatureGroup aggregates signature fields that share a numeric-suffixed
// prefix (requester_1, requester_2 -> group "requester") and represents one
// logical multi-signatory slot.
type SignatureGroup struct {
	Prefix          string  `json:"prefix" yaml:"prefix"`
	BaseFieldName   string  `json:"base_field_name" yaml:"base_field_name"`
	NameField       string  `json:"name_field,omitempty" yaml:"name_field,omitempty"`
	SectionLabel    string  `json:"section_label" yaml:"section_label"`
	SignatureFields []Field `json:"signature_fields" yaml:"signature_fields"`
	Required        bool    `json:"is_required" yaml:"is_required"`
}

// Schema is the parser output: fields in first-seen document order plus the
// signature groups derived from them.
type Schema struct {
	Fields          []Field          `json:"fields" yaml:"fields"`
	SignatureGroups []SignatureGroup `json:"signature_groups" yaml:"signature_groups"`
}

// Field returns the definition for name, if present.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Group returns the signature group keyed by prefix, if present.
func (s Schema) Group(prefix string) (SignatureGroup, bool) {
	for _, g := range s.SignatureGroups {
		if g.Prefix == prefix {
			return g, true
		}
	}
	return SignatureGroup{}, false
}

// InputFields returns the fields a caller should surface on an input form:
// everything except signature slots and fields with an empty name (the parser
// tolerates `{{}}` tokens but callers typically filter them).
func (s Schema) InputFields() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" || f.Type == FieldTypeSignature {
			continue
		}
		out = append(out, f)
	}
	return out
}

// NormalizeCheckbox maps a submitted checkbox value onto its rendered form.
// Truthy spellings become "Yes", everything else "No".
func NormalizeCheckbox(raw string) string {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on":
		return "Yes"
	}
	return "No"
}
