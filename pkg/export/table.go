// Package export renders tabular reports as CSV or PDF documents.
package export

import "fmt"

// Align controls how a PDF cell positions its text.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Column describes one table column. Weight sizes the column relative to its siblings in PDF output; zero counts as one.
type Column struct {
	Header string
	Align  Align
	Weight float64
}

// Table is a report body with an optional trailing summary row.
type Table struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]string
	Footer   []string
}

// Headers returns the column headers in order.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	if len(t.Footer) > 0 && len(t.Footer) != len(t.Columns) {
		return fmt.Errorf("footer has %d cells, want %d", len(t.Footer), len(t.Columns))
	}
	return nil
}
