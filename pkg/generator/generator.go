// Package generator fills a parsed DOCX template with submitted field values
// and injects signature images.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/parser"
	"github.com/goliatone/go-docgen/pkg/richtext"
)

// Generator holds one template instance and the input data to substitute.
// Each Generator owns its in-memory document, so independent instances can
// run concurrently without coordination.
type Generator struct {
	templatePath string
	data         map[string]any
	doc          *docx.Document
}

// New opens the template and prepares a generator. A missing or unreadable
// template is the one construction-time failure.
func New(templatePath string, data map[string]any) (*Generator, error) {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	return &Generator{templatePath: templatePath, data: data, doc: doc}, nil
}

// TemplatePath returns the path the generator was constructed with.
func (g *Generator) TemplatePath() string {
	return g.templatePath
}

// Data returns the input mapping.
func (g *Generator) Data() map[string]any {
	return g.data
}

// Document exposes the in-memory document the generator mutates.
func (g *Generator) Document() *docx.Document {
	return g.doc
}

// Substitute runs the replacement pass over every body paragraph and table
// cell paragraph. Signature placeholders are left for the signature passes;
// names missing from the input data resolve to an empty string.
func (g *Generator) Substitute() {
	SubstituteDocument(g.doc, g.data)
}

// Generate substitutes and serializes the document to DOCX bytes.
func (g *Generator) Generate() ([]byte, error) {
	g.Substitute()
	out, err := g.doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("generator: serialize document: %w", err)
	}
	return out, nil
}

// SubstituteDocument applies the replacement pass to an already-open
// document. The PDF renderer uses this against its own fresh copy of the
// template.
func SubstituteDocument(doc *docx.Document, data map[string]any) {
	doc.EachParagraph(func(p *docx.Paragraph) {
		substituteParagraph(p, data)
	})
}

type replacement struct {
	placeholder string
	value       string
}

// substituteParagraph replaces placeholders at paragraph-text granularity.
// When any replacement happens the paragraph's runs are rebuilt, which drops
// formatting the template carried on the surrounding text. That loss is the
// documented trade-off of whole-paragraph replacement; paragraphs with no
// resolved placeholder are never touched.
func substituteParagraph(p *docx.Paragraph, data map[string]any) {
	text := p.Text()
	matches := parser.Placeholder.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return
	}

	var replacements []replacement
	for _, match := range matches {
		content := match[1]
		parts := strings.Split(content, "|")
		name := strings.TrimSpace(parts[0])
		fieldType := model.FieldTypeText
		if len(parts) > 1 {
			fieldType = model.FieldType(strings.TrimSpace(parts[1]))
		}
		if fieldType == model.FieldTypeSignature {
			continue
		}

		value := ""
		if raw, ok := data[name]; ok {
			value = Stringify(raw)
			if strings.Contains(strings.ToLower(content), "checkbox") {
				value = model.NormalizeCheckbox(value)
			}
		}
		replacements = append(replacements, replacement{placeholder: match[0], value: value})
	}
	if replacements == nil {
		return
	}

	newText := text
	for _, r := range replacements {
		newText = strings.ReplaceAll(newText, r.placeholder, r.value)
	}
	if newText == text {
		return
	}

	p.ClearRuns()

	hasHTML := false
	for _, r := range replacements {
		if strings.Contains(r.value, "<") && strings.Contains(r.value, ">") {
			hasHTML = true
			break
		}
	}
	if hasHTML {
		richtext.Apply(p, newText)
	} else if newText != "" {
		p.AddRun(newText)
	}
}

// Stringify renders an input value the way it should appear in the document.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", t)
	}
}
