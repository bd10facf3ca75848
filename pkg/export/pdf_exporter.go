package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 297.0
	pageMargin   = 12.0
	headerHeight = 8.0
	rowHeight    = 7.0
)

// PDFExporter lays a table out on landscape A4 pages, repeating the header row on each page.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter builds a PDF exporter stamped with the current time.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// Render produces the PDF document bytes.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	widths := columnWidths(table.Columns, pageWidth-2*pageMargin)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	generated := e.now().Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - page %d", generated, pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], headerHeight, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(table.Title), "", 1, "L", false, 0, "")
	}
	if table.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(table.Subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
	writeHeader()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range table.Rows {
		if pdf.GetY()+rowHeight > pageHeight-2*pageMargin {
			pdf.AddPage()
			writeHeader()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], rowHeight, tr(cell), "1", 0, string(alignOf(table.Columns[i])), false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(table.Footer) > 0 {
		pdf.SetFont("Arial", "B", 9)
		for i, cell := range table.Footer {
			pdf.CellFormat(widths[i], rowHeight, tr(cell), "1", 0, string(alignOf(table.Columns[i])), false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns []Column, total float64) []float64 {
	sum := 0.0
	weights := make([]float64, len(columns))
	for i, col := range columns {
		weights[i] = col.Weight
		if weights[i] <= 0 {
			weights[i] = 1
		}
		sum += weights[i]
	}
	widths := make([]float64, len(columns))
	for i, w := range weights {
		widths[i] = total * w / sum
	}
	return widths
}

func alignOf(col Column) Align {
	if col.Align == "" {
		return AlignLeft
	}
	return col.Align
}
