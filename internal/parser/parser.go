package parser

import (
	"bytes"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dgallion1/pagesift/internal/apperr"
)

// Document is the readable text of one fetched page.
type Document struct {
	Title string
	Text  string // Whitespace-normalized plain text, no markup.
}

// Parser converts raw page bytes into a Document.
type Parser interface {
	Parse(src []byte, name string) (*Document, error)
}

// Options tune parser selection.
type Options struct {
	Mode                 Mode // HTML content isolation mode.
	PDFFallbackPdftotext bool
}

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ForContentType returns the parser for a media type. When the media type is
// missing or generic, the URL's extension decides.
func ForContentType(mediaType, pageURL string, opts Options) (Parser, error) {
	switch strings.ToLower(mediaType) {
	case "text/html", "application/xhtml+xml":
		return &HTMLParser{Mode: opts.Mode, PageURL: pageURL}, nil
	case "application/pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case docxMediaType:
		return &DOCXParser{}, nil
	case "text/markdown", "text/x-markdown":
		return &MarkdownParser{}, nil
	case "text/csv":
		return &CSVParser{}, nil
	case "", "text/plain", "application/octet-stream", "binary/octet-stream":
	default:
		return nil, apperr.Errorf(apperr.KindFetch, "unsupported content type %q", mediaType)
	}

	switch extension(pageURL) {
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	}
	if mediaType == "text/plain" {
		return &TextParser{}, nil
	}
	return nil, nil
}

// ParsePage picks a parser for the fetched bytes and runs it. Pages served
// without a usable content type are sniffed.
func ParsePage(src []byte, mediaType, pageURL string, opts Options) (*Document, error) {
	p, err := ForContentType(mediaType, pageURL, opts)
	if err != nil {
		return nil, err
	}
	if p == nil {
		sniffed := strings.Split(http.DetectContentType(src), ";")[0]
		if sniffed == "text/plain" && looksLikeHTML(src) {
			sniffed = "text/html"
		}
		if sniffed == "text/plain" {
			p = &TextParser{}
		} else if p, err = ForContentType(sniffed, pageURL, opts); err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.Errorf(apperr.KindFetch, "unsupported content type %q", sniffed)
		}
	}

	doc, err := p.Parse(src, baseName(pageURL))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, err, "could not read page content")
	}
	return doc, nil
}

func looksLikeHTML(src []byte) bool {
	head := bytes.ToLower(src[:min(len(src), 1024)])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<body")) ||
		bytes.Contains(head, []byte("<p>")) || bytes.Contains(head, []byte("<div"))
}

func extension(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func baseName(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		if err == nil && u.Host != "" {
			return u.Host
		}
		return "page"
	}
	return path.Base(u.Path)
}

// Normalize splits text on line breaks, drops empty and whitespace-only
// lines, collapses whitespace runs inside each line and joins the lines with
// single spaces.
func Normalize(text string) string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			parts = append(parts, strings.Join(fields, " "))
		}
	}
	return strings.Join(parts, " ")
}
