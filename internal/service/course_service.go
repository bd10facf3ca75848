package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/repository"
	"github.com/noah-isme/school-admin-api/internal/validation"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/logger"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListActive(ctx context.Context) ([]models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsEnrollmentForCourse(ctx context.Context, courseID string) (bool, error)
}

// CourseRequest holds payload for creating or updating a course. Active defaults to true on create.
type CourseRequest struct {
	Name          string          `json:"name" validate:"required,max=150"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	DurationHours int             `json:"duration_hours" validate:"gte=0"`
	Active        *bool           `json:"active"`
}

var errCourseHasEnrollments = appErrors.Clone(appErrors.ErrConflict, "cannot delete course: enrollments exist")

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// Create persists a new course.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	course := &models.Course{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DurationHours: req.DurationHours,
		Active:        active,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	logger.FromContext(ctx, s.logger).Info("course created", zap.String("course_id", course.ID))
	return course, nil
}

// FindByID returns the course or nil when absent.
func (s *CourseService) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	return optional(course, err, "failed to get course")
}

// ListAll returns every course.
func (s *CourseService) ListAll(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListActive returns the courses open for enrollment.
func (s *CourseService) ListActive(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list active courses")
	}
	return courses, nil
}

// Update overwrites the fields of an existing course. An omitted active flag keeps the stored value.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Name = req.Name
	course.Description = req.Description
	course.Price = req.Price
	course.DurationHours = req.DurationHours
	if req.Active != nil {
		course.Active = *req.Active
	}
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	logger.FromContext(ctx, s.logger).Info("course updated", zap.String("course_id", course.ID))
	return course, nil
}

// SetActive flips only the active flag of a course.
func (s *CourseService) SetActive(ctx context.Context, id string, active bool) (*models.Course, error) {
	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Active = active
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course status")
	}
	logger.FromContext(ctx, s.logger).Info("course status changed", zap.String("course_id", id), zap.Bool("active", active))
	return course, nil
}

// Delete removes a course that no enrollment references.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	inUse, err := s.repo.ExistsEnrollmentForCourse(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course enrollments")
	}
	if inUse {
		logger.FromContext(ctx, s.logger).Debug("course delete rejected: enrollments exist", zap.String("course_id", id))
		return appErrors.Clone(errCourseHasEnrollments, "")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return appErrors.Clone(errCourseHasEnrollments, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	logger.FromContext(ctx, s.logger).Info("course deleted", zap.String("course_id", id))
	return nil
}

func (s *CourseService) load(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get course")
	}
	return course, nil
}
