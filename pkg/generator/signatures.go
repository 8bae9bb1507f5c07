package generator

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-docgen/pkg/docx"
	"github.com/goliatone/go-docgen/pkg/model"
	"github.com/goliatone/go-docgen/pkg/parser"
)

// SignatureWidthEMU is the fixed display width of an injected signature.
const SignatureWidthEMU = 2 * docx.EMUPerInch

var groupedName = regexp.MustCompile(`^(.+)_(\d+)$`)

// ApplySignature replaces every signature placeholder in the document with
// the image at signaturePath. An empty or non-existent path is a silent
// no-op so drafts without a captured signature still render.
func (g *Generator) ApplySignature(signaturePath string) error {
	if signaturePath == "" {
		return nil
	}
	if _, err := os.Stat(signaturePath); err != nil {
		return nil
	}

	var firstErr error
	g.doc.EachParagraph(func(p *docx.Paragraph) {
		if firstErr != nil {
			return
		}
		if err := g.signParagraph(p, signaturePath); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

func (g *Generator) signParagraph(p *docx.Paragraph, signaturePath string) error {
	text := p.Text()
	for _, match := range parser.Placeholder.FindAllStringSubmatch(text, -1) {
		if placeholderType(match[1]) != model.FieldTypeSignature {
			continue
		}
		if !removePlaceholder(p, match[0]) {
			continue
		}
		drawing, err := g.doc.InlineImage(signaturePath, SignatureWidthEMU)
		if err != nil {
			return err
		}
		p.AddImageRun(drawing)
	}
	return nil
}

// ApplyMultipleSignatures resolves signature placeholders against a mapping
// of field name to ordered image paths. A placeholder matches an entry when
// both share the `<prefix>_<digits>` prefix, or when the names are exactly
// equal. Every image of the matching entry is appended in order, each
// followed by a double-space separator run. Paths that do not exist on disk
// are skipped silently so a partial signature set still renders.
func (g *Generator) ApplyMultipleSignatures(signatures map[string][]string) error {
	if len(signatures) == 0 {
		return nil
	}

	// Deterministic match order regardless of map iteration.
	names := make([]string, 0, len(signatures))
	for name := range signatures {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	g.doc.EachParagraph(func(p *docx.Paragraph) {
		if firstErr != nil {
			return
		}
		if err := g.signParagraphGrouped(p, names, signatures); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

func (g *Generator) signParagraphGrouped(p *docx.Paragraph, names []string, signatures map[string][]string) error {
	text := p.Text()
	for _, match := range parser.Placeholder.FindAllStringSubmatch(text, -1) {
		content := match[1]
		if placeholderType(content) != model.FieldTypeSignature {
			continue
		}
		varName := strings.TrimSpace(strings.Split(content, "|")[0])
		varPrefix := namePrefix(varName)

		for _, name := range names {
			fieldPrefix := namePrefix(name)
			matched := false
			switch {
			case fieldPrefix != "" && varPrefix == fieldPrefix:
				matched = true
			case fieldPrefix == "" && name == varName:
				matched = true
			}
			if !matched {
				continue
			}
			if !removePlaceholder(p, match[0]) {
				break
			}
			if err := g.appendSignatureImages(p, signatures[name]); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (g *Generator) appendSignatureImages(p *docx.Paragraph, paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		drawing, err := g.doc.InlineImage(path, SignatureWidthEMU)
		if err != nil {
			return err
		}
		p.AddImageRun(drawing)
		p.AddRun("  ")
	}
	return nil
}

// removePlaceholder deletes the placeholder text from the first run that
// contains it whole. Placeholders split across runs are left alone, the
// documented limitation of run-level removal.
func removePlaceholder(p *docx.Paragraph, placeholder string) bool {
	for _, run := range p.Runs() {
		if strings.Contains(run.Text(), placeholder) {
			run.ReplaceText(placeholder, "")
			return true
		}
	}
	return false
}

func placeholderType(content string) model.FieldType {
	parts := strings.Split(content, "|")
	if len(parts) > 1 {
		return model.FieldType(strings.TrimSpace(parts[1]))
	}
	return model.FieldTypeText
}

func namePrefix(name string) string {
	if m := groupedName.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}
