package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admin-api/internal/models"
)

const (
	enrollmentColumns = "id, person_id, course_id, enrollment_date, charged_amount, payment_status, due_date, created_at, updated_at"

	enrollmentDetailSelect = `SELECT e.id, e.person_id, e.course_id, e.enrollment_date, e.charged_amount, e.payment_status, e.due_date, e.created_at, e.updated_at,
        p.name AS person_name, p.cpf AS person_cpf, c.name AS course_name, c.price AS course_price, c.duration_hours AS course_duration_hours
        FROM enrollments e
        JOIN persons p ON p.id = e.person_id
        JOIN courses c ON c.id = e.course_id`
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts a new enrollment. The (person_id, course_id) unique constraint rejects duplicates.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, person_id, course_id, enrollment_date, charged_amount, payment_status, due_date, created_at, updated_at)
        VALUES (:id, :person_id, :course_id, :enrollment_date, :charged_amount, :payment_status, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns the enrollment with the given id or sql.ErrNoRows.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := r.db.Rebind("SELECT " + enrollmentColumns + " FROM enrollments WHERE id = ?")
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns the joined enrollment row or sql.ErrNoRows.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	query := r.db.Rebind(enrollmentDetailSelect + " WHERE e.id = ?")
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByPersonAndCourse returns the enrollment for the pair or sql.ErrNoRows.
func (r *EnrollmentRepository) FindByPersonAndCourse(ctx context.Context, personID, courseID string) (*models.Enrollment, error) {
	query := r.db.Rebind("SELECT " + enrollmentColumns + " FROM enrollments WHERE person_id = ? AND course_id = ?")
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, personID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListDetailsByPerson returns a person's enrollments, oldest first.
func (r *EnrollmentRepository) ListDetailsByPerson(ctx context.Context, personID string) ([]models.EnrollmentDetail, error) {
	query := r.db.Rebind(enrollmentDetailSelect + " WHERE e.person_id = ? ORDER BY e.enrollment_date ASC, e.created_at ASC")
	var details []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &details, query, personID); err != nil {
		return nil, fmt.Errorf("list person enrollments: %w", err)
	}
	return details, nil
}

// ListDetails returns every enrollment, newest first.
func (r *EnrollmentRepository) ListDetails(ctx context.Context) ([]models.EnrollmentDetail, error) {
	query := enrollmentDetailSelect + " ORDER BY e.enrollment_date DESC, e.created_at DESC"
	var details []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &details, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return details, nil
}

// Update overwrites the mutable fields of an enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET charged_amount = :charged_amount, payment_status = :payment_status, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM enrollments WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ExistsByID reports whether an enrollment with the id exists.
func (r *EnrollmentRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM enrollments WHERE id = ? LIMIT 1", "check enrollment", id)
}
