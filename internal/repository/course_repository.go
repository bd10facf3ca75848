package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admin-api/internal/models"
)

const courseColumns = "id, name, description, price, duration_hours, active, created_at, updated_at"

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, name, description, price, duration_hours, active, created_at, updated_at)
        VALUES (:id, :name, :description, :price, :duration_hours, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns the course with the given id or sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := r.db.Rebind("SELECT " + courseColumns + " FROM courses WHERE id = ?")
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns every course ordered by name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses ORDER BY name ASC, id ASC"
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListActive returns the courses open for enrollment.
func (r *CourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	query := r.db.Rebind("SELECT " + courseColumns + " FROM courses WHERE active = ? ORDER BY name ASC, id ASC")
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, true); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return courses, nil
}

// Update overwrites every mutable field of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, description = :description, price = :price, duration_hours = :duration_hours, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM courses WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ExistsByID reports whether a course with the id exists.
func (r *CourseRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM courses WHERE id = ? LIMIT 1", "check course", id)
}

// ExistsEnrollmentForCourse reports whether any enrollment references the course.
func (r *CourseRepository) ExistsEnrollmentForCourse(ctx context.Context, courseID string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM enrollments WHERE course_id = ? LIMIT 1", "check course enrollments", courseID)
}
