// Package richtext converts the small HTML subset produced by rich-text
// editors (bold/italic/underline/strike, span colors, line breaks) into
// formatted document runs.
package richtext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-docgen/pkg/docx"
)

// Apply appends formatted runs for the HTML fragment to the paragraph.
//
// Fragments without any markup are appended verbatim as one plain run, so
// plain text never pays for parsing. Otherwise the fragment is sanitized to
// the supported subset and stream-parsed with a formatting stack: each open
// tag pushes a flag, each matching close tag pops it, and every text node
// becomes its own run carrying the currently active formatting. Unclosed or
// mismatched tags never error; their flags simply stay active.
func Apply(p *docx.Paragraph, fragment string) {
	if strings.TrimSpace(fragment) == "" {
		return
	}
	if !strings.Contains(fragment, "<") {
		p.AddRun(fragment)
		return
	}

	f := &formatter{paragraph: p}
	f.feed(sanitize(fragment))
}

const (
	flagBold      = "bold"
	flagItalic    = "italic"
	flagUnderline = "underline"
	flagStrike    = "strike"
	flagColor     = "color"
	flagBgColor   = "bg_color"
)

type formatter struct {
	paragraph *docx.Paragraph
	stack     []string
	current   docx.RunProps
	bgColor   string
	lastRun   *docx.Run
}

func (f *formatter) feed(fragment string) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.TextToken:
			f.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			f.open(tok.Data, tok.Attr)
		case html.EndTagToken:
			tok := z.Token()
			f.close(tok.Data)
		}
	}
}

var (
	stylePattern   = regexp.MustCompile(`color:\s*([^;]+)`)
	bgStylePattern = regexp.MustCompile(`background-color:\s*([^;]+)`)
)

func (f *formatter) open(tag string, attrs []html.Attribute) {
	switch tag {
	case "strong", "b":
		f.push(flagBold)
		f.current.Bold = true
	case "em", "i":
		f.push(flagItalic)
		f.current.Italic = true
	case "u":
		f.push(flagUnderline)
		f.current.Underline = true
	case "strike", "s", "del":
		f.push(flagStrike)
		f.current.Strike = true
	case "span":
		style := attrValue(attrs, "style")
		// background-color also matches the color pattern, so strip it first.
		colorOnly := bgStylePattern.ReplaceAllString(style, "")
		if m := stylePattern.FindStringSubmatch(colorOnly); m != nil {
			if hex, ok := ParseColor(m[1]); ok {
				f.push(flagColor)
				f.current.Color = hex
			}
		}
		if m := bgStylePattern.FindStringSubmatch(style); m != nil {
			f.push(flagBgColor)
			f.bgColor = strings.TrimSpace(m[1])
		}
	case "br":
		if f.lastRun != nil {
			f.lastRun.AddBreak()
		}
	}
}

func (f *formatter) close(tag string) {
	switch tag {
	case "strong", "b":
		f.pop(flagBold)
	case "em", "i":
		f.pop(flagItalic)
	case "u":
		f.pop(flagUnderline)
	case "strike", "s", "del":
		f.pop(flagStrike)
	case "span":
		if n := len(f.stack); n > 0 && (f.stack[n-1] == flagColor || f.stack[n-1] == flagBgColor) {
			f.pop(f.stack[n-1])
		}
	case "p":
		// Paragraph boundaries inside a fragment flatten to line breaks.
		if f.lastRun != nil {
			f.lastRun.AddBreak()
		}
	}
}

func (f *formatter) text(data string) {
	if strings.TrimSpace(data) == "" {
		return
	}
	f.lastRun = f.paragraph.AddFormattedRun(data, f.current)
}

func (f *formatter) push(flag string) {
	f.stack = append(f.stack, flag)
}

// pop removes the flag only when it sits on top of the stack; mismatched
// closes are ignored.
func (f *formatter) pop(flag string) {
	n := len(f.stack)
	if n == 0 || f.stack[n-1] != flag {
		return
	}
	f.stack = f.stack[:n-1]
	switch flag {
	case flagBold:
		f.current.Bold = false
	case flagItalic:
		f.current.Italic = false
	case flagUnderline:
		f.current.Underline = false
	case flagStrike:
		f.current.Strike = false
	case flagColor:
		f.current.Color = ""
	case flagBgColor:
		f.bgColor = ""
	}
}

func attrValue(attrs []html.Attribute, name string) string {
	for _, a := range attrs {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
