package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter writes the header row, the body and the footer. Title and subtitle are not part of CSV output.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render encodes the table as CSV.
func (e *CSVExporter) Render(table Table) ([]byte, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	records := make([][]string, 0, len(table.Rows)+2)
	records = append(records, table.Headers())
	records = append(records, table.Rows...)
	if len(table.Footer) > 0 {
		records = append(records, table.Footer)
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
