package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-api/internal/dto"
	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/service"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/response"
)

type personService interface {
	Register(ctx context.Context, req service.PersonRequest) (*models.Person, error)
	FindByID(ctx context.Context, id string) (*models.Person, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Person, error)
	List(ctx context.Context) ([]models.Person, error)
	Update(ctx context.Context, id string, req service.PersonRequest) (*models.Person, error)
	Delete(ctx context.Context, id string) error
}

type personEnrollmentService interface {
	ListByPerson(ctx context.Context, personID string) ([]dto.EnrollmentView, error)
}

type statementService interface {
	ExportStatement(ctx context.Context, personID string, format models.ExportFormat) (*service.Statement, error)
}

var errPersonNotFound = appErrors.Clone(appErrors.ErrNotFound, "person not found")

// PersonHandler exposes person endpoints.
type PersonHandler struct {
	persons     personService
	enrollments personEnrollmentService
	statements  statementService
}

// NewPersonHandler builds a new handler.
func NewPersonHandler(persons personService, enrollments personEnrollmentService, statements statementService) *PersonHandler {
	return &PersonHandler{persons: persons, enrollments: enrollments, statements: statements}
}

// Register godoc
// @Summary Register a person
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.PersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Register(c *gin.Context) {
	var req service.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	person, err := h.persons.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// List godoc
// @Summary List persons ordered by name
// @Tags Persons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /persons [get]
func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.persons.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, persons, nil)
}

// Get godoc
// @Summary Get person detail
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.persons.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if person == nil {
		response.Error(c, errPersonNotFound)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// GetByCPF godoc
// @Summary Get person by CPF
// @Tags Persons
// @Produce json
// @Param cpf path string true "CPF"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/cpf/{cpf} [get]
func (h *PersonHandler) GetByCPF(c *gin.Context) {
	person, err := h.persons.FindByCPF(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if person == nil {
		response.Error(c, errPersonNotFound)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Update godoc
// @Summary Update a person
// @Tags Persons
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body service.PersonRequest true "Person payload"
// @Success 200 {object} response.Envelope
// @Router /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req service.PersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	person, err := h.persons.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Delete godoc
// @Summary Delete a person without enrollments
// @Tags Persons
// @Param id path string true "Person ID"
// @Success 204 {string} string ""
// @Failure 409 {object} response.Envelope
// @Router /persons/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.persons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enrollments godoc
// @Summary List a person's enrollments
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /persons/{id}/enrollments [get]
func (h *PersonHandler) Enrollments(c *gin.Context) {
	views, err := h.enrollments.ListByPerson(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views, nil)
}

// ExportStatement godoc
// @Summary Download a person's enrollment statement
// @Tags Persons
// @Produce text/csv,application/pdf
// @Param id path string true "Person ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /persons/{id}/enrollments/export [get]
func (h *PersonHandler) ExportStatement(c *gin.Context) {
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportFormatCSV)))
	statement, err := h.statements.ExportStatement(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, statement.Filename, statement.ContentType, statement.Payload)
}
