package service

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-api/internal/models"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/export"
)

type pdfRendererStub struct {
	table export.Table
}

func (s *pdfRendererStub) Render(table export.Table) ([]byte, error) {
	s.table = table
	return []byte("%PDF-stub"), nil
}

func statementFixture() (*personRepoStub, *enrollmentRepoStub) {
	persons := newPersonRepoStub(&models.Person{ID: "ana", Name: "Ana", CPF: "111"})
	enrolled, _ := models.ParseDate("2024-03-01")
	due, _ := models.ParseDate("2024-03-31")
	enrollments := newEnrollmentRepoStub()
	enrollments.byPerson = []models.EnrollmentDetail{{
		Enrollment: models.Enrollment{
			ID:             "e-1",
			PersonID:       "ana",
			CourseID:       "math",
			EnrollmentDate: enrolled,
			ChargedAmount:  decimal.RequireFromString("90"),
			PaymentStatus:  models.PaymentStatusPending,
			DueDate:        due,
		},
		CourseName:          "Math",
		CourseDurationHours: 40,
	}}
	return persons, enrollments
}

func TestExportStatementCSV(t *testing.T) {
	persons, enrollments := statementFixture()
	svc := NewStatementService(persons, enrollments, nil, nil, NewMetricsService(), nil)

	statement, err := svc.ExportStatement(context.Background(), "ana", models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "statement-111.csv", statement.Filename)
	assert.Equal(t, "text/csv", statement.ContentType)

	lines := strings.Split(strings.TrimSpace(string(statement.Payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Course,Hours,Enrolled,Charged,Status,Due", lines[0])
	assert.Equal(t, "Math,40,2024-03-01,90.00,PENDING,2024-03-31", lines[1])
	assert.Equal(t, "Total,,,90.00,,", lines[2])
}

func TestExportStatementPDF(t *testing.T) {
	persons, enrollments := statementFixture()
	pdf := &pdfRendererStub{}
	svc := NewStatementService(persons, enrollments, nil, pdf, nil, nil)

	statement, err := svc.ExportStatement(context.Background(), "ana", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", statement.ContentType)
	assert.Equal(t, "statement-111.pdf", statement.Filename)
	assert.Equal(t, "Ana (CPF 111)", pdf.table.Subtitle)
	assert.Len(t, pdf.table.Rows, 1)
}

func TestExportStatementWithoutEnrollments(t *testing.T) {
	persons, enrollments := statementFixture()
	enrollments.byPerson = nil
	svc := NewStatementService(persons, enrollments, nil, nil, nil, nil)

	statement, err := svc.ExportStatement(context.Background(), "ana", models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Course,Hours,Enrolled,Charged,Status,Due\nTotal,,,0.00,,\n", string(statement.Payload))
}

func TestExportStatementRejectsUnknownFormat(t *testing.T) {
	persons, enrollments := statementFixture()
	svc := NewStatementService(persons, enrollments, nil, nil, nil, nil)

	_, err := svc.ExportStatement(context.Background(), "ana", "xlsx")
	assertAppError(t, err, appErrors.ErrValidation, "format must be csv or pdf")
	assert.Empty(t, persons.calls)
}

func TestExportStatementPersonNotFound(t *testing.T) {
	persons, enrollments := statementFixture()
	svc := NewStatementService(persons, enrollments, nil, nil, nil, nil)

	_, err := svc.ExportStatement(context.Background(), "ghost", models.ExportFormatCSV)
	assertAppError(t, err, appErrors.ErrNotFound, "person not found")
	assert.Empty(t, enrollments.calls)
}
