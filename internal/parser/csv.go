package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files. Rows are rendered as "header: value"
// lines and grouped into row-batch passages.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	out := &Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return out, nil
	}

	headers := records[0]
	dataRows := records[1:]

	const batchSize = 20
	for i := 0; i < len(dataRows); i += batchSize {
		end := min(i+batchSize, len(dataRows))
		var text strings.Builder
		for _, row := range dataRows[i:end] {
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
			text.WriteString("\n")
		}
		out.Passages = append(out.Passages, strings.TrimSpace(text.String()))
	}

	return out, nil
}
