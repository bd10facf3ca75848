package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/repository"
	"github.com/noah-isme/school-admin-api/internal/validation"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/logger"
)

type personRepository interface {
	Create(ctx context.Context, person *models.Person) error
	FindByID(ctx context.Context, id string) (*models.Person, error)
	FindByCPF(ctx context.Context, cpf string) (*models.Person, error)
	List(ctx context.Context) ([]models.Person, error)
	Update(ctx context.Context, person *models.Person) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// PersonRequest holds payload for registering or updating a person.
type PersonRequest struct {
	Name      string       `json:"name" validate:"required,max=150"`
	CPF       string       `json:"cpf" validate:"required,max=14"`
	BirthDate *models.Date `json:"birth_date"`
	Email     string       `json:"email" validate:"omitempty,email,max=150"`
	Phone     string       `json:"phone" validate:"omitempty,max=30"`
}

// PersonService handles person use-cases.
type PersonService struct {
	repo      personRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPersonService constructs the person service.
func NewPersonService(repo personRepository, validate *validator.Validate, logger *zap.Logger) *PersonService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, validator: validate, logger: logger}
}

// Register creates a person after checking the CPF is free.
func (s *PersonService) Register(ctx context.Context, req PersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	existing, err := s.repo.FindByCPF(ctx, req.CPF)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check cpf")
	}
	if existing != nil {
		logger.FromContext(ctx, s.logger).Debug("person rejected: cpf taken", zap.String("cpf", req.CPF))
		return nil, appErrors.Clone(appErrors.ErrConflict, "cpf already registered")
	}

	person := &models.Person{
		Name:      req.Name,
		CPF:       req.CPF,
		BirthDate: req.BirthDate,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "cpf already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create person")
	}
	logger.FromContext(ctx, s.logger).Info("person registered", zap.String("person_id", person.ID))
	return person, nil
}

// FindByID returns the person or nil when absent.
func (s *PersonService) FindByID(ctx context.Context, id string) (*models.Person, error) {
	person, err := s.repo.FindByID(ctx, id)
	return optional(person, err, "failed to get person")
}

// FindByCPF returns the person holding the cpf or nil when absent.
func (s *PersonService) FindByCPF(ctx context.Context, cpf string) (*models.Person, error) {
	person, err := s.repo.FindByCPF(ctx, cpf)
	return optional(person, err, "failed to get person")
}

// List returns every person ordered by name.
func (s *PersonService) List(ctx context.Context) ([]models.Person, error) {
	persons, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list persons")
	}
	return persons, nil
}

// Update overwrites every mutable field of an existing person, cpf included.
func (s *PersonService) Update(ctx context.Context, id string, req PersonRequest) (*models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get person")
	}

	person.Name = req.Name
	person.CPF = req.CPF
	person.BirthDate = req.BirthDate
	person.Email = req.Email
	person.Phone = req.Phone
	if err := s.repo.Update(ctx, person); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "cpf already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update person")
	}
	logger.FromContext(ctx, s.logger).Info("person updated", zap.String("person_id", person.ID))
	return person, nil
}

// Delete removes an existing person. Enrollments referencing the person block the delete at the storage level.
func (s *PersonService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check person")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "person not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "person has enrollments")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete person")
	}
	logger.FromContext(ctx, s.logger).Info("person deleted", zap.String("person_id", id))
	return nil
}

// optional turns sql.ErrNoRows into an empty result.
func optional[T any](value *T, err error, message string) (*T, error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	}
	return value, nil
}
