package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown pages using goldmark. Markup characters
// are dropped; only block and inline text survives.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(src []byte, name string) (*Document, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{
		Title: strings.TrimSuffix(strings.TrimSuffix(name, ".md"), ".markdown"),
	}

	var lines []string
	titled := false
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		t := extractText(n, src)
		if t == "" {
			continue
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && !titled {
			doc.Title = t
			titled = true
		}
		lines = append(lines, t)
	}

	doc.Text = Normalize(strings.Join(lines, "\n"))
	return doc, nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		// Code and raw HTML blocks: take the raw lines, skip HTML entirely.
		if n.Kind() == ast.KindHTMLBlock {
			return ""
		}
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	case ast.KindRawHTML:
		return ""
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		// Recurse for nested blocks and inlines.
		if s := extractText(c, src); s != "" {
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
