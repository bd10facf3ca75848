package service

import (
	"context"
	"database/sql"

	"github.com/noah-isme/school-admin-api/internal/models"
)

// callLog records repository method names in call order.
type callLog []string

func (l *callLog) add(name string) { *l = append(*l, name) }

func (l callLog) has(name string) bool {
	for _, c := range l {
		if c == name {
			return true
		}
	}
	return false
}

type personRepoStub struct {
	calls     callLog
	persons   map[string]*models.Person
	err       error
	createErr error
	updateErr error
	deleteErr error
}

func newPersonRepoStub(persons ...*models.Person) *personRepoStub {
	s := &personRepoStub{persons: map[string]*models.Person{}}
	for _, p := range persons {
		s.persons[p.ID] = p
	}
	return s
}

func (s *personRepoStub) Create(ctx context.Context, person *models.Person) error {
	s.calls.add("Create")
	if s.createErr != nil {
		return s.createErr
	}
	if person.ID == "" {
		person.ID = "generated-person"
	}
	s.persons[person.ID] = person
	return nil
}

func (s *personRepoStub) FindByID(ctx context.Context, id string) (*models.Person, error) {
	s.calls.add("FindByID")
	if s.err != nil {
		return nil, s.err
	}
	if p, ok := s.persons[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *personRepoStub) FindByCPF(ctx context.Context, cpf string) (*models.Person, error) {
	s.calls.add("FindByCPF")
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.persons {
		if p.CPF == cpf {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *personRepoStub) List(ctx context.Context) ([]models.Person, error) {
	s.calls.add("List")
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Person, 0, len(s.persons))
	for _, p := range s.persons {
		out = append(out, *p)
	}
	return out, nil
}

func (s *personRepoStub) Update(ctx context.Context, person *models.Person) error {
	s.calls.add("Update")
	if s.updateErr != nil {
		return s.updateErr
	}
	s.persons[person.ID] = person
	return nil
}

func (s *personRepoStub) Delete(ctx context.Context, id string) error {
	s.calls.add("Delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.persons, id)
	return nil
}

func (s *personRepoStub) ExistsByID(ctx context.Context, id string) (bool, error) {
	s.calls.add("ExistsByID")
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.persons[id]
	return ok, nil
}

type courseRepoStub struct {
	calls          callLog
	courses        map[string]*models.Course
	withEnrollment map[string]bool
	err            error
	deleteErr      error
}

func newCourseRepoStub(courses ...*models.Course) *courseRepoStub {
	s := &courseRepoStub{courses: map[string]*models.Course{}, withEnrollment: map[string]bool{}}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	s.calls.add("Create")
	if s.err != nil {
		return s.err
	}
	if course.ID == "" {
		course.ID = "generated-course"
	}
	s.courses[course.ID] = course
	return nil
}

func (s *courseRepoStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	s.calls.add("FindByID")
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) ListActive(ctx context.Context) ([]models.Course, error) {
	s.calls.add("ListActive")
	var out []models.Course
	for _, c := range s.courses {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, s.err
}

func (s *courseRepoStub) List(ctx context.Context) ([]models.Course, error) {
	s.calls.add("List")
	var out []models.Course
	for _, c := range s.courses {
		out = append(out, *c)
	}
	return out, s.err
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	s.calls.add("Update")
	if s.err != nil {
		return s.err
	}
	s.courses[course.ID] = course
	return nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id string) error {
	s.calls.add("Delete")
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.courses, id)
	return nil
}

func (s *courseRepoStub) ExistsByID(ctx context.Context, id string) (bool, error) {
	s.calls.add("ExistsByID")
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.courses[id]
	return ok, nil
}

func (s *courseRepoStub) ExistsEnrollmentForCourse(ctx context.Context, courseID string) (bool, error) {
	s.calls.add("ExistsEnrollmentForCourse")
	return s.withEnrollment[courseID], s.err
}

type enrollmentRepoStub struct {
	calls       callLog
	enrollments map[string]*models.Enrollment
	details     map[string]models.EnrollmentDetail
	byPerson    []models.EnrollmentDetail
	err         error
	createErr   error
	created     []*models.Enrollment
	updated     []*models.Enrollment
}

func newEnrollmentRepoStub(enrollments ...*models.Enrollment) *enrollmentRepoStub {
	s := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{}, details: map[string]models.EnrollmentDetail{}}
	for _, e := range enrollments {
		s.enrollments[e.ID] = e
		s.details[e.ID] = models.EnrollmentDetail{Enrollment: *e}
	}
	return s
}

func (s *enrollmentRepoStub) Create(ctx context.Context, enrollment *models.Enrollment) error {
	s.calls.add("Create")
	if s.createErr != nil {
		return s.createErr
	}
	if enrollment.ID == "" {
		enrollment.ID = "generated-enrollment"
	}
	s.created = append(s.created, enrollment)
	s.enrollments[enrollment.ID] = enrollment
	return nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	s.calls.add("FindByID")
	if s.err != nil {
		return nil, s.err
	}
	if e, ok := s.enrollments[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	s.calls.add("FindDetailByID")
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.details[id]; ok {
		if e, ok := s.enrollments[id]; ok {
			d.Enrollment = *e
		}
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) FindByPersonAndCourse(ctx context.Context, personID, courseID string) (*models.Enrollment, error) {
	s.calls.add("FindByPersonAndCourse")
	if s.err != nil {
		return nil, s.err
	}
	for _, e := range s.enrollments {
		if e.PersonID == personID && e.CourseID == courseID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) ListDetailsByPerson(ctx context.Context, personID string) ([]models.EnrollmentDetail, error) {
	s.calls.add("ListDetailsByPerson")
	return s.byPerson, s.err
}

func (s *enrollmentRepoStub) ListDetails(ctx context.Context) ([]models.EnrollmentDetail, error) {
	s.calls.add("ListDetails")
	return s.byPerson, s.err
}

func (s *enrollmentRepoStub) Update(ctx context.Context, enrollment *models.Enrollment) error {
	s.calls.add("Update")
	if s.err != nil {
		return s.err
	}
	s.updated = append(s.updated, enrollment)
	s.enrollments[enrollment.ID] = enrollment
	return nil
}

func (s *enrollmentRepoStub) Delete(ctx context.Context, id string) error {
	s.calls.add("Delete")
	if s.err != nil {
		return s.err
	}
	delete(s.enrollments, id)
	return nil
}

func (s *enrollmentRepoStub) ExistsByID(ctx context.Context, id string) (bool, error) {
	s.calls.add("ExistsByID")
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.enrollments[id]
	return ok, nil
}
