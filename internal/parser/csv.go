package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVParser handles CSV pages. Each data row becomes "header: value" pairs
// so the model sees column names next to every value.
type CSVParser struct{}

func (p *CSVParser) Parse(src []byte, name string) (*Document, error) {
	reader := csv.NewReader(bytes.NewReader(src))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: strings.TrimSuffix(name, ".csv")}
	if len(records) == 0 {
		return doc, nil
	}

	// First row is headers.
	headers := records[0]
	var text strings.Builder
	for _, row := range records[1:] {
		for j, cell := range row {
			if j < len(headers) {
				text.WriteString(headers[j] + ": " + cell)
			} else {
				text.WriteString(cell)
			}
			if j < len(row)-1 {
				text.WriteString(", ")
			}
		}
		text.WriteString(";\n")
	}
	if len(records) == 1 {
		text.WriteString(strings.Join(headers, ", "))
	}

	doc.Text = Normalize(text.String())
	return doc, nil
}
