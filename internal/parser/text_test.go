package parser

import (
	"testing"
)

func TestTextParser_JoinsLines(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse([]byte(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	want := "First paragraph line one. First paragraph line two. Second paragraph. Third paragraph."
	if doc.Text != want {
		t.Errorf("expected %q, got %q", want, doc.Text)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(nil, "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be dropped.
	p := &TextParser{}
	doc, err := p.Parse([]byte("Para one.\n   \n\t\r\nPara   two.\r\n"), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Para one. Para two." {
		t.Errorf("expected %q, got %q", "Para one. Para two.", doc.Text)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   \n\n\t", ""},
		{"a\nb", "a b"},
		{"  a   b  \n\n  c ", "a b c"},
		{"line\r\nnext", "line next"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVParser_RowsWithHeaders(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse([]byte("name,price\nwidget,3\ngadget,5\n"), "prices.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "prices" {
		t.Errorf("expected title %q, got %q", "prices", doc.Title)
	}
	want := "name: widget, price: 3; name: gadget, price: 5;"
	if doc.Text != want {
		t.Errorf("expected %q, got %q", want, doc.Text)
	}
}
