package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBodyClean_ScriptBeforeParagraph(t *testing.T) {
	body, err := ExtractBody(`<script>bad</script><p>Hello World</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", Clean(body))
}

func TestClean_RemovesScriptAndStyle(t *testing.T) {
	markup := `<html><head><style>h1{color:red}</style></head>
<body>
  <h1>Title</h1>
  <script type="text/javascript">var secret = "tracking";</script>
  <style>.x { display: none }</style>
  <p>First    paragraph
     continues here.</p>
  <noscript><img src="pixel.gif"></noscript>
  <ul><li>one</li><li>two</li></ul>
</body></html>`

	body, err := ExtractBody(markup)
	require.NoError(t, err)
	got := Clean(body)

	assert.Equal(t, "Title First paragraph continues here. one two", got)
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "display")
	assert.NotContains(t, got, "color:red")
	assert.NotContains(t, got, "<")
}

func TestClean_NoCollapsibleWhitespace(t *testing.T) {
	body, err := ExtractBody("<body><div>\n\n  a \t b  </div>\n\n<div> </div><p>c</p></body>")
	require.NoError(t, err)
	got := Clean(body)
	assert.Equal(t, "a b c", got)
	assert.NotContains(t, got, "  ")
	assert.NotContains(t, got, "\n")
}

func TestClean_SkipsComments(t *testing.T) {
	body, err := ExtractBody(`<body><!-- hidden note --><p>shown</p></body>`)
	require.NoError(t, err)
	assert.Equal(t, "shown", Clean(body))
}

func TestClean_DecodesEntities(t *testing.T) {
	body, err := ExtractBody(`<p>Fish &amp; Chips &lt;3</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Fish & Chips <3", Clean(body))
}

func TestExtractBody_FramesetHasNoBody(t *testing.T) {
	body, err := ExtractBody(`<html><frameset><frame src="a.html"></frameset></html>`)
	require.NoError(t, err)
	assert.Equal(t, Fragment(""), body)
	assert.Equal(t, "", Clean(body))
}

func TestClean_EmptyFragment(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	body, err := ExtractBody(`<html><body><script>only()</script></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "", Clean(body))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":            ModeBody,
		"body":        ModeBody,
		"Readability": ModeReadability,
		"trafilatura": ModeTrafilatura,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("markdown")
	assert.Error(t, err)
}

func TestHTMLParser_BodyMode(t *testing.T) {
	p := &HTMLParser{Mode: ModeBody}
	doc, err := p.Parse([]byte(`<html><head><title> Acme Corp </title></head><body><p>We build rockets.</p></body></html>`), "index.html")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", doc.Title)
	assert.Equal(t, "We build rockets.", doc.Text)
}

func TestHTMLParser_TitleFallsBackToName(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse([]byte(`<p>text</p>`), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com", doc.Title)
}

func articlePage() []byte {
	para := strings.Repeat("The river delta supports a wide range of migratory birds during the spring season. ", 12)
	return []byte(`<html><head><title>Delta Birds</title><script>track()</script></head><body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article><h1>Delta Birds</h1><p>` + para + `</p><p>` + para + `</p></article>
<footer>Copyright</footer></body></html>`)
}

func TestHTMLParser_MainContentModes(t *testing.T) {
	for _, mode := range []Mode{ModeReadability, ModeTrafilatura} {
		t.Run(string(mode), func(t *testing.T) {
			p := &HTMLParser{Mode: mode, PageURL: "https://birds.example/delta"}
			doc, err := p.Parse(articlePage(), "delta")
			require.NoError(t, err)
			assert.Contains(t, doc.Text, "migratory birds")
			assert.NotContains(t, doc.Text, "track()")
			assert.NotContains(t, doc.Text, "<")
			assert.NotEmpty(t, doc.Title)
		})
	}
}

func TestHTMLParser_MainContentFallsBackToBody(t *testing.T) {
	p := &HTMLParser{Mode: ModeReadability, PageURL: "https://example.com"}
	doc, err := p.Parse([]byte(`<html><body><p>tiny</p></body></html>`), "example.com")
	require.NoError(t, err)
	assert.Equal(t, "tiny", doc.Text)
}
