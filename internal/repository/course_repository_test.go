package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-api/internal/models"
)

var courseRowColumns = []string{"id", "name", "description", "price", "duration_hours", "active", "created_at", "updated_at"}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs(sqlmock.AnyArg(), "Math", "", sqlmock.AnyArg(), 40, true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{Name: "Math", Price: decimal.NewFromInt(100), DurationHours: 40, Active: true}
	require.NoError(t, repo.Create(context.Background(), course))
	assert.NotEmpty(t, course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE active = ? ORDER BY name ASC, id ASC")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(courseRowColumns).AddRow("c-1", "Math", "", "100.00", 40, true, now, now))

	courses, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.True(t, courses[0].Price.Equal(decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryExistsEnrollmentForCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments WHERE course_id = ? LIMIT 1")).
		WithArgs("c-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	found, err := repo.ExistsEnrollmentForCourse(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET name = ?, description = ?, price = ?, duration_hours = ?, active = ?, updated_at = ? WHERE id = ?")).
		WithArgs("Math", "Algebra", sqlmock.AnyArg(), 60, false, sqlmock.AnyArg(), "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{ID: "c-1", Name: "Math", Description: "Algebra", Price: decimal.NewFromInt(120), DurationHours: 60}
	require.NoError(t, repo.Update(context.Background(), course))
	assert.NoError(t, mock.ExpectationsWereMet())
}
