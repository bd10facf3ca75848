package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-api/internal/dto"
	"github.com/noah-isme/school-admin-api/internal/models"
	"github.com/noah-isme/school-admin-api/internal/repository"
	"github.com/noah-isme/school-admin-api/internal/validation"
	appErrors "github.com/noah-isme/school-admin-api/pkg/errors"
	"github.com/noah-isme/school-admin-api/pkg/logger"
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	FindByPersonAndCourse(ctx context.Context, personID, courseID string) (*models.Enrollment, error)
	ListDetailsByPerson(ctx context.Context, personID string) ([]models.EnrollmentDetail, error)
	ListDetails(ctx context.Context) ([]models.EnrollmentDetail, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	ExistsByID(ctx context.Context, id string) (bool, error)
}

type personReader interface {
	FindByID(ctx context.Context, id string) (*models.Person, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollRequest holds payload for enrolling a person in a course.
type EnrollRequest struct {
	PersonID      string          `json:"person_id" validate:"required"`
	CourseID      string          `json:"course_id" validate:"required"`
	ChargedAmount decimal.Decimal `json:"charged_amount" validate:"gte=0"`
	DueDate       models.Date     `json:"due_date" validate:"required"`
}

// UpdatePaymentStatusRequest holds payload for changing an enrollment's payment status.
type UpdatePaymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"payment_status" validate:"required"`
}

// Enrollment outcomes recorded in metrics.
const (
	enrollOutcomeCreated   = "created"
	enrollOutcomeNotFound  = "not_found"
	enrollOutcomeInactive  = "course_inactive"
	enrollOutcomeDuplicate = "duplicate"
	enrollOutcomeInvalid   = "invalid"
)

var errAlreadyEnrolled = appErrors.Clone(appErrors.ErrConflict, "already enrolled")

// EnrollmentService orchestrates the enrollment lifecycle and its payment status.
type EnrollmentService struct {
	enrollments enrollmentRepository
	persons     personReader
	courses     courseReader
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs the enrollment service. metrics may be nil.
func NewEnrollmentService(enrollments enrollmentRepository, persons personReader, courses courseReader, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		persons:     persons,
		courses:     courses,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Enroll registers a person in an active course. Checks run in order and the first failure wins.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*dto.EnrollmentView, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordEnrollment(enrollOutcomeInvalid)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	person, err := s.persons.FindByID(ctx, req.PersonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordEnrollment(enrollOutcomeNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "person not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get person")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordEnrollment(enrollOutcomeNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get course")
	}
	if !course.Active {
		s.metrics.RecordEnrollment(enrollOutcomeInactive)
		logger.FromContext(ctx, s.logger).Debug("enrollment rejected: course inactive", zap.String("course_id", course.ID))
		return nil, appErrors.Clone(appErrors.ErrConflict, "course inactive")
	}

	existing, err := s.enrollments.FindByPersonAndCourse(ctx, person.ID, course.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if existing != nil {
		s.metrics.RecordEnrollment(enrollOutcomeDuplicate)
		logger.FromContext(ctx, s.logger).Debug("enrollment rejected: already enrolled", zap.String("person_id", person.ID), zap.String("course_id", course.ID))
		return nil, appErrors.Clone(errAlreadyEnrolled, "")
	}

	enrollment := &models.Enrollment{
		PersonID:       person.ID,
		CourseID:       course.ID,
		EnrollmentDate: models.NewDate(s.now()),
		ChargedAmount:  req.ChargedAmount,
		PaymentStatus:  models.PaymentStatusPending,
		DueDate:        req.DueDate,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			s.metrics.RecordEnrollment(enrollOutcomeDuplicate)
			return nil, appErrors.Clone(errAlreadyEnrolled, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}

	s.metrics.RecordEnrollment(enrollOutcomeCreated)
	logger.FromContext(ctx, s.logger).Info("enrollment created",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("person_id", person.ID),
		zap.String("course_id", course.ID),
	)
	view := dto.NewEnrollmentView(*enrollment, *person, *course)
	return &view, nil
}

// FindByID returns the enrollment view or nil when absent.
func (s *EnrollmentService) FindByID(ctx context.Context, id string) (*dto.EnrollmentView, error) {
	detail, err := s.enrollments.FindDetailByID(ctx, id)
	detail, err = optional(detail, err, "failed to get enrollment")
	if err != nil || detail == nil {
		return nil, err
	}
	view := dto.EnrollmentViewFromDetail(*detail)
	return &view, nil
}

// ListByPerson returns the enrollments of a person in repository order.
func (s *EnrollmentService) ListByPerson(ctx context.Context, personID string) ([]dto.EnrollmentView, error) {
	details, err := s.enrollments.ListDetailsByPerson(ctx, personID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return dto.EnrollmentViewsFromDetails(details), nil
}

// List returns every enrollment.
func (s *EnrollmentService) List(ctx context.Context) ([]dto.EnrollmentView, error) {
	details, err := s.enrollments.ListDetails(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return dto.EnrollmentViewsFromDetails(details), nil
}

// UpdatePaymentStatus overwrites the payment status. Any status may follow any other.
func (s *EnrollmentService) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*dto.EnrollmentView, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid payment status")
	}

	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get enrollment")
	}

	previous := enrollment.PaymentStatus
	enrollment.PaymentStatus = status
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	logger.FromContext(ctx, s.logger).Info("payment status updated",
		zap.String("enrollment_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	detail, err := s.enrollments.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get enrollment")
	}
	view := dto.EnrollmentViewFromDetail(*detail)
	return &view, nil
}

// Cancel removes an enrollment unconditionally.
func (s *EnrollmentService) Cancel(ctx context.Context, id string) error {
	found, err := s.enrollments.ExistsByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err := s.enrollments.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	logger.FromContext(ctx, s.logger).Info("enrollment cancelled", zap.String("enrollment_id", id))
	return nil
}
