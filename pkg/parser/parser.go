// Package parser derives a field schema from the `{{name|type|label|validation}}`
// placeholders of a DOCX template.
package parser

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/model"
)

// Placeholder is the non-greedy token pattern shared by the parser and the
// generator's substitution pass.
var Placeholder = regexp.MustCompile(`\{\{(.*?)\}\}`)

var (
	signatureName = regexp.MustCompile(`^(.+)_(\d+)$`)
	linkedName    = regexp.MustCompile(`^(.+)_(\d+)_name$`)
)

// ParseFile opens the template at path and parses its placeholders.
func ParseFile(path string) (model.Schema, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return model.Schema{}, err
	}
	return Parse(doc), nil
}

// Parse scans every body paragraph, then every table cell paragraph
// row-major, and returns fields in first-seen order plus the signature
// groups derived from them.
//
// Duplicate names are dropped entirely after the first occurrence, so a
// field's type, label, options and bounds always come from its first
// definition. A template with no placeholders yields an empty schema, not an
// error.
func Parse(doc *docx.Document) model.Schema {
	s := &scan{
		seen:   make(map[string]struct{}),
		groups: make(map[string]*model.SignatureGroup),
	}

	for _, p := range doc.Paragraphs() {
		s.extract(p.Text())
	}
	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows {
			for _, cell := range row.Cells {
				for _, p := range cell.Paragraphs() {
					s.extract(p.Text())
				}
			}
		}
	}

	schema := model.Schema{Fields: s.fields}
	for _, prefix := range s.groupOrder {
		schema.SignatureGroups = append(schema.SignatureGroups, *s.groups[prefix])
	}
	return schema
}

// scan is the working state of one Parse call. It is local to the call, so
// concurrent parses never share anything.
type scan struct {
	seen       map[string]struct{}
	fields     []model.Field
	groups     map[string]*model.SignatureGroup
	groupOrder []string
}

func (s *scan) extract(text string) {
	for _, match := range Placeholder.FindAllStringSubmatch(text, -1) {
		parts := strings.Split(match[1], "|")
		name := strings.TrimSpace(parts[0])

		if _, dup := s.seen[name]; dup {
			continue
		}
		s.seen[name] = struct{}{}

		fieldType := model.FieldTypeText
		if len(parts) > 1 {
			fieldType = model.FieldType(strings.TrimSpace(parts[1]))
		}
		label := model.DefaultLabel(name)
		if len(parts) > 2 {
			label = strings.TrimSpace(parts[2])
		}
		validation := ""
		if len(parts) > 3 {
			validation = strings.TrimSpace(parts[3])
		}

		field := model.Field{
			Name:       name,
			Type:       fieldType,
			Label:      label,
			Validation: validation,
			Options:    model.ParseOptions(validation),
			Autofilled: model.HasRule(validation, model.RuleAutofilled),
		}
		if fieldType == model.FieldTypeNumber {
			field.MinValue = model.ParseMin(validation)
			field.MaxValue = model.ParseMax(validation)
		}

		if fieldType == model.FieldTypeSignature {
			s.registerSignature(field)
		}
		if fieldType == model.FieldTypeText && field.Autofilled {
			s.linkNameField(field)
		}

		s.fields = append(s.fields, field)
	}
}

// registerSignature files a signature field under its numeric-suffixed
// prefix, creating the group lazily on the first member. The group label
// follows the latest member; required-ness latches on and never resets.
func (s *scan) registerSignature(field model.Field) {
	m := signatureName.FindStringSubmatch(field.Name)
	if m == nil {
		return
	}
	prefix := m[1]

	group, ok := s.groups[prefix]
	if !ok {
		group = &model.SignatureGroup{
			Prefix:        prefix,
			BaseFieldName: field.Name,
			SectionLabel:  field.Label,
			Required:      field.Required(),
		}
		s.groups[prefix] = group
		s.groupOrder = append(s.groupOrder, prefix)
	}
	group.SignatureFields = append(group.SignatureFields, field)
	group.SectionLabel = field.Label
	if field.Required() {
		group.Required = true
	}
}

// linkNameField attaches an autofilled `<prefix>_<N>_name` text field to its
// signature group. The link only happens when the group already exists, so a
// name field that precedes every signature field of its group in document
// order is left unlinked. That ordering dependency is long-standing observed
// behaviour that callers rely on.
func (s *scan) linkNameField(field model.Field) {
	m := linkedName.FindStringSubmatch(field.Name)
	if m == nil {
		return
	}
	if group, ok := s.groups[m[1]]; ok {
		group.NameField = field.Name
	}
}
