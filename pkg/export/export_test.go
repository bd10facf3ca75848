package export

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:    "Enrollment statement",
		Subtitle: "Ana - 111",
		Columns: []Column{
			{Header: "Course", Weight: 3},
			{Header: "Charged", Align: AlignRight},
		},
		Rows:   [][]string{{"Math", "90.00"}, {"Física, básica", "10.00"}},
		Footer: []string{"Total", "100.00"},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Course,Charged\nMath,90.00\n\"Física, básica\",10.00\nTotal,100.00\n", string(out))
}

func TestCSVExporterWithoutFooter(t *testing.T) {
	table := sampleTable()
	table.Footer = nil

	out, err := NewCSVExporter().Render(table)
	require.NoError(t, err)
	assert.Equal(t, "Course,Charged\nMath,90.00\n\"Física, básica\",10.00\n", string(out))
}

func TestRenderRejectsMalformedTables(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)

	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})
	_, err = NewPDFExporter().Render(table)
	assert.Error(t, err)

	table = sampleTable()
	table.Footer = []string{"Total"}
	_, err = NewCSVExporter().Render(table)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := &PDFExporter{now: func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }}

	out, err := exporter.Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterPaginatesLongTables(t *testing.T) {
	table := sampleTable()
	for i := 0; i < 80; i++ {
		table.Rows = append(table.Rows, []string{"Course", "1.00"})
	}

	out, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	match := regexp.MustCompile(`/Count (\d+)`).FindSubmatch(out)
	require.NotNil(t, match)
	pages, err := strconv.Atoi(string(match[1]))
	require.NoError(t, err)
	assert.Greater(t, pages, 1)
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths([]Column{{Weight: 3}, {}}, 100)
	assert.InDelta(t, 75, widths[0], 0.001)
	assert.InDelta(t, 25, widths[1], 0.001)
}
