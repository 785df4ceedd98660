package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/marktree/internal/outline"
)

// CSVParser handles CSV files. Rows are grouped into batches, each batch a
// root titled with its row range and holding one leaf per row.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &outline.Document{Title: trimExt(filename)}
	var b outline.Builder
	if len(records) == 0 {
		doc.Forest = b.Forest()
		return doc, nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		b.Heading(1, fmt.Sprintf("Rows %d-%d", i+2, end+1)) // 1-indexed, skip header
		for _, row := range dataRows[i:end] {
			b.Paragraph(formatRow(headers, row))
		}
	}

	doc.Forest = b.Forest()
	return doc, nil
}

func formatRow(headers, row []string) string {
	var text strings.Builder
	for j, cell := range row {
		if j > 0 {
			text.WriteString(", ")
		}
		if j < len(headers) {
			text.WriteString(headers[j] + ": " + cell)
		} else {
			text.WriteString(cell)
		}
	}
	return text.String()
}
