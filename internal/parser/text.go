package parser

import (
	"bufio"
	"bytes"
	"strings"
)

// TextParser handles plain text pages.
type TextParser struct{}

func (p *TextParser) Parse(src []byte, name string) (*Document, error) {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Document{
		Title: strings.TrimSuffix(name, ".txt"),
		Text:  Normalize(strings.Join(lines, "\n")),
	}, nil
}
