package render

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-docgen/pkg/docx"
)

var leftoverPlaceholder = regexp.MustCompile(`\{\{[^}]+\}\}`)

// StripPlaceholders removes any unresolved `{{...}}` tokens. Renderers apply
// it defensively so a partially filled template never leaks raw placeholder
// syntax into the output.
func StripPlaceholders(text string) string {
	return leftoverPlaceholder.ReplaceAllString(text, "")
}

// HasHeadingStyle reports whether the paragraph carries a Heading* style.
func HasHeadingStyle(p *docx.Paragraph) bool {
	return strings.HasPrefix(p.Style, "Heading")
}

// IsHeading applies the page-flow heading heuristic: a bold lead run always
// reads as a heading; otherwise a short paragraph with a Heading style does.
func IsHeading(p *docx.Paragraph) bool {
	runs := p.Runs()
	if len(runs) == 0 {
		return false
	}
	if runs[0].Props.Bold {
		return true
	}
	return len(strings.TrimSpace(p.Text())) < 100 && HasHeadingStyle(p)
}
