package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-api/internal/dto"
	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/service"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
)

type personServiceMock struct {
	registerResp *models.Person
	registerErr  error
	findResp     *models.Person
	findErr      error
	listResp     []models.Person
	updateResp   *models.Person
	deleteErr    error

	lastRegister service.PersonRequest
	lastCPF      string
	lastID       string
	registered   bool
}

func (m *personServiceMock) Register(ctx context.Context, req service.PersonRequest) (*models.Person, error) {
	m.registered = true
	m.lastRegister = req
	return m.registerResp, m.registerErr
}

func (m *personServiceMock) FindByID(ctx context.Context, id string) (*models.Person, error) {
	m.lastID = id
	return m.findResp, m.findErr
}

func (m *personServiceMock) FindByCPF(ctx context.Context, cpf string) (*models.Person, error) {
	m.lastCPF = cpf
	return m.findResp, m.findErr
}

func (m *personServiceMock) List(ctx context.Context) ([]models.Person, error) {
	return m.listResp, nil
}

func (m *personServiceMock) Update(ctx context.Context, id string, req service.PersonRequest) (*models.Person, error) {
	m.lastID = id
	return m.updateResp, nil
}

func (m *personServiceMock) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.deleteErr
}

type personEnrollmentsMock struct {
	views        []dto.EnrollmentView
	lastPersonID string
}

func (m *personEnrollmentsMock) ListByPerson(ctx context.Context, personID string) ([]dto.EnrollmentView, error) {
	m.lastPersonID = personID
	return m.views, nil
}

type statementServiceMock struct {
	statement  *service.Statement
	err        error
	lastFormat models.ExportFormat
}

func (m *statementServiceMock) ExportStatement(ctx context.Context, personID string, format models.ExportFormat) (*service.Statement, error) {
	m.lastFormat = format
	return m.statement, m.err
}

func TestPersonHandlerRegister(t *testing.T) {
	mockSvc := &personServiceMock{registerResp: &models.Person{ID: "p-1", Name: "Ana", CPF: "111"}}
	handler := NewPersonHandler(mockSvc, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodPost, "/persons", `{"name":"Ana","cpf":"111","birth_date":"2000-01-15"}`)
	handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "111", mockSvc.lastRegister.CPF)
	require.NotNil(t, mockSvc.lastRegister.BirthDate)
	assert.Equal(t, "2000-01-15", mockSvc.lastRegister.BirthDate.String())
}

func TestPersonHandlerRegisterInvalidBody(t *testing.T) {
	mockSvc := &personServiceMock{}
	handler := NewPersonHandler(mockSvc, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodPost, "/persons", `{"name":"Ana","birth_date":"15/01/2000"}`)
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, w).Error.Code)
	assert.False(t, mockSvc.registered)
}

func TestPersonHandlerRegisterConflict(t *testing.T) {
	mockSvc := &personServiceMock{registerErr: appErrors.Clone(appErrors.ErrConflict, "cpf already registered")}
	handler := NewPersonHandler(mockSvc, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodPost, "/persons", `{"name":"Ana","cpf":"111"}`)
	handler.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "cpf already registered", decode(t, w).Error.Message)
}

func TestPersonHandlerGetMissingIs404(t *testing.T) {
	handler := NewPersonHandler(&personServiceMock{}, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodGet, "/persons/nope", "", gin.Param{Key: "id", Value: "nope"})
	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/persons/cpf/999", "", gin.Param{Key: "cpf", Value: "999"})
	handler.GetByCPF(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPersonHandlerGetByCPF(t *testing.T) {
	mockSvc := &personServiceMock{findResp: &models.Person{ID: "p-1", Name: "Ana", CPF: "111"}}
	handler := NewPersonHandler(mockSvc, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodGet, "/persons/cpf/111", "", gin.Param{Key: "cpf", Value: "111"})
	handler.GetByCPF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "111", mockSvc.lastCPF)
	assert.Contains(t, string(decode(t, w).Data), `"name":"Ana"`)
}

func TestPersonHandlerDelete(t *testing.T) {
	mockSvc := &personServiceMock{}
	handler := NewPersonHandler(mockSvc, &personEnrollmentsMock{}, &statementServiceMock{})

	c, w := newTestContext(http.MethodDelete, "/persons/p-1", "", gin.Param{Key: "id", Value: "p-1"})
	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "p-1", mockSvc.lastID)
}

func TestPersonHandlerEnrollments(t *testing.T) {
	enrollments := &personEnrollmentsMock{views: []dto.EnrollmentView{{ID: "e-1"}}}
	handler := NewPersonHandler(&personServiceMock{}, enrollments, &statementServiceMock{})

	c, w := newTestContext(http.MethodGet, "/persons/p-1/enrollments", "", gin.Param{Key: "id", Value: "p-1"})
	handler.Enrollments(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p-1", enrollments.lastPersonID)
}

func TestPersonHandlerExportStatement(t *testing.T) {
	statements := &statementServiceMock{statement: &service.Statement{Filename: "statement-111.csv", ContentType: "text/csv", Payload: []byte("Course\n")}}
	handler := NewPersonHandler(&personServiceMock{}, &personEnrollmentsMock{}, statements)

	c, w := newTestContext(http.MethodGet, "/persons/p-1/enrollments/export", "", gin.Param{Key: "id", Value: "p-1"})
	handler.ExportStatement(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ExportFormatCSV, statements.lastFormat)
	assert.Equal(t, "attachment; filename=statement-111.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "Course\n", w.Body.String())
}

func TestPersonHandlerExportStatementBadFormat(t *testing.T) {
	statements := &statementServiceMock{err: appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")}
	handler := NewPersonHandler(&personServiceMock{}, &personEnrollmentsMock{}, statements)

	c, w := newTestContext(http.MethodGet, "/persons/p-1/enrollments/export?format=xlsx", "", gin.Param{Key: "id", Value: "p-1"})
	handler.ExportStatement(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ExportFormat("xlsx"), statements.lastFormat)
}
