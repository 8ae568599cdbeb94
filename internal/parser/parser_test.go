package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pagesift/internal/apperr"
)

func TestForContentType(t *testing.T) {
	tests := []struct {
		mediaType string
		url       string
		want      Parser
	}{
		{"text/html", "https://example.com", &HTMLParser{Mode: ModeBody, PageURL: "https://example.com"}},
		{"application/xhtml+xml", "https://example.com/a", &HTMLParser{Mode: ModeBody, PageURL: "https://example.com/a"}},
		{"application/pdf", "https://example.com/x", &PDFParser{}},
		{docxMediaType, "https://example.com/x", &DOCXParser{}},
		{"text/markdown", "https://example.com/x", &MarkdownParser{}},
		{"text/csv", "https://example.com/x", &CSVParser{}},
		{"application/octet-stream", "https://example.com/report.pdf", &PDFParser{}},
		{"", "https://example.com/README.md", &MarkdownParser{}},
		{"text/plain", "https://example.com/data.csv", &CSVParser{}},
		{"text/plain", "https://example.com/notes", &TextParser{}},
	}
	for _, tt := range tests {
		got, err := ForContentType(tt.mediaType, tt.url, Options{Mode: ModeBody})
		require.NoError(t, err, tt.mediaType)
		assert.Equal(t, tt.want, got, "%s %s", tt.mediaType, tt.url)
	}
}

func TestForContentType_Unknown(t *testing.T) {
	p, err := ForContentType("", "https://example.com/", Options{})
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = ForContentType("image/png", "https://example.com/a.png", Options{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindFetch, apperr.KindOf(err))
}

func TestParsePage_HTML(t *testing.T) {
	doc, err := ParsePage([]byte(`<html><head><title>Hi</title></head><body><script>bad</script><p>Hello World</p></body></html>`),
		"text/html", "https://example.com", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Title)
	assert.Equal(t, "Hello World", doc.Text)
}

func TestParsePage_SniffsUntypedHTML(t *testing.T) {
	doc, err := ParsePage([]byte(`<p>Hello <b>there</b></p>`), "", "https://example.com", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", doc.Text)
	assert.Equal(t, "example.com", doc.Title)
}

func TestParsePage_SniffsPlainText(t *testing.T) {
	doc, err := ParsePage([]byte("just\n\n  words  "), "application/octet-stream", "https://example.com/raw", Options{})
	require.NoError(t, err)
	assert.Equal(t, "just words", doc.Text)
}

func TestParsePage_UnsupportedBinary(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err := ParsePage(png, "", "https://example.com/img", Options{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindFetch, apperr.KindOf(err))
}

func TestParsePage_ReadabilityMode(t *testing.T) {
	doc, err := ParsePage(articlePage(), "text/html", "https://birds.example/delta", Options{Mode: ModeReadability})
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "migratory birds")
	assert.NotContains(t, doc.Text, "track()")
	assert.NotContains(t, doc.Text, "<")
}
