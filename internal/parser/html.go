package parser

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Mode selects how the content region of an HTML page is isolated.
type Mode string

const (
	ModeBody        Mode = "body"
	ModeReadability Mode = "readability"
	ModeTrafilatura Mode = "trafilatura"
)

// ParseMode maps a configuration or request value to a Mode. Empty means
// ModeBody.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeBody, nil
	case ModeBody, ModeReadability, ModeTrafilatura:
		return m, nil
	}
	return "", fmt.Errorf("unknown extract mode %q", s)
}

// Fragment is the markup of a document's body region.
type Fragment string

// ExtractBody returns the <body> element of markup. A document without a
// body yields an empty fragment.
func ExtractBody(markup string) (Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return bodyFragment(doc)
}

func bodyFragment(doc *goquery.Document) (Fragment, error) {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return "", nil
	}
	out, err := goquery.OuterHtml(body)
	if err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return Fragment(out), nil
}

// stripped elements. noscript is raw text to the parser, so its content
// would otherwise leak markup into the output.
const nonContent = "script, style, noscript"

// Clean removes script and style elements, flattens what is left to text
// and normalizes whitespace.
func Clean(f Fragment) string {
	if strings.TrimSpace(string(f)) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(f)))
	if err != nil {
		return ""
	}
	doc.Find(nonContent).Remove()

	var buf strings.Builder
	for _, n := range doc.Nodes {
		flatten(n, &buf)
	}
	return Normalize(buf.String())
}

// flatten writes every text node under n, one per line.
func flatten(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		buf.WriteByte('\n')
		return
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, buf)
	}
}

// HTMLParser handles HTML pages.
type HTMLParser struct {
	Mode    Mode
	PageURL string
}

func (p *HTMLParser) Parse(src []byte, name string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	out := &Document{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	if out.Title == "" {
		out.Title = name
	}

	switch p.Mode {
	case ModeReadability:
		if title, text := p.readability(src); text != "" {
			if title != "" {
				out.Title = title
			}
			out.Text = text
			return out, nil
		}
	case ModeTrafilatura:
		if title, text := p.trafilatura(src); text != "" {
			if title != "" {
				out.Title = title
			}
			out.Text = text
			return out, nil
		}
	}

	body, err := bodyFragment(doc)
	if err != nil {
		return nil, err
	}
	out.Text = Clean(body)
	return out, nil
}

// readability isolates the main article. Failures return empty text so the
// caller falls back to the whole body.
func (p *HTMLParser) readability(src []byte) (string, string) {
	pageURL, _ := url.Parse(p.PageURL)
	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(src), pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), Clean(Fragment(article.Content))
}

func (p *HTMLParser) trafilatura(src []byte) (string, string) {
	result, err := trafilatura.Extract(bytes.NewReader(src), trafilatura.Options{EnableFallback: true})
	if err != nil || result == nil || result.ContentNode == nil {
		return "", ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return "", ""
	}
	return strings.TrimSpace(result.Metadata.Title), Clean(Fragment(buf.String()))
}
