package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-api/internal/models"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/export"
	"github.com/noah-isme/school-admin-api/pkg/logger"
)

type statementRepository interface {
	ListDetailsByPerson(ctx context.Context, personID string) ([]models.EnrollmentDetail, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// Statement is a rendered enrollment statement ready for download.
type Statement struct {
	Filename    string
	ContentType string
	Payload     []byte
}

var statementColumns = []export.Column{
	{Header: "Course", Weight: 3},
	{Header: "Hours", Align: export.AlignRight},
	{Header: "Enrolled", Align: export.AlignCenter, Weight: 1.5},
	{Header: "Charged", Align: export.AlignRight, Weight: 1.5},
	{Header: "Status", Align: export.AlignCenter},
	{Header: "Due", Align: export.AlignCenter, Weight: 1.5},
}

// StatementService renders a person's enrollments as CSV or PDF.
type StatementService struct {
	persons     personReader
	enrollments statementRepository
	csv         tableRenderer
	pdf         tableRenderer
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewStatementService constructs a StatementService. Nil renderers fall back to the pkg/export defaults.
func NewStatementService(persons personReader, enrollments statementRepository, csv, pdf tableRenderer, metrics *MetricsService, logger *zap.Logger) *StatementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &StatementService{persons: persons, enrollments: enrollments, csv: csv, pdf: pdf, metrics: metrics, logger: logger}
}

// ExportStatement renders the enrollments of a person in the requested format.
func (s *StatementService) ExportStatement(ctx context.Context, personID string, format models.ExportFormat) (*Statement, error) {
	format = models.ExportFormat(strings.ToLower(string(format)))
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	person, err := s.persons.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get person")
	}

	start := time.Now()
	details, err := s.enrollments.ListDetailsByPerson(ctx, person.ID)
	s.metrics.ObserveDBQuery("statement_enrollments", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}

	table := buildStatementTable(person, details)
	var payload []byte
	switch format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(table)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(table)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement")
	}

	logger.FromContext(ctx, s.logger).Info("statement exported",
		zap.String("person_id", person.ID),
		zap.String("format", string(format)),
		zap.Int("enrollments", len(details)),
	)
	return &Statement{
		Filename:    fmt.Sprintf("statement-%s.%s", person.CPF, format),
		ContentType: contentType(format),
		Payload:     payload,
	}, nil
}

func buildStatementTable(person *models.Person, details []models.EnrollmentDetail) export.Table {
	rows := make([][]string, 0, len(details))
	total := decimal.Zero
	for _, d := range details {
		rows = append(rows, []string{
			d.CourseName,
			strconv.Itoa(d.CourseDurationHours),
			d.EnrollmentDate.String(),
			d.ChargedAmount.StringFixed(2),
			string(d.PaymentStatus),
			d.DueDate.String(),
		})
		total = total.Add(d.ChargedAmount)
	}
	return export.Table{
		Title:    "Enrollment statement",
		Subtitle: fmt.Sprintf("%s (CPF %s)", person.Name, person.CPF),
		Columns:  statementColumns,
		Rows:     rows,
		Footer:   []string{"Total", "", "", total.StringFixed(2), "", ""},
	}
}

func contentType(format models.ExportFormat) string {
	if format == models.ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}
