package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-admin-api/internal/models"
)

// PersonSummary is the nested enrollee snapshot of an enrollment view.
type PersonSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CPF  string `json:"cpf"`
}

// CourseSummary is the nested course snapshot of an enrollment view.
type CourseSummary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DurationHours int             `json:"duration_hours"`
}

// EnrollmentView is the read model returned for enrollments. It is never persisted.
type EnrollmentView struct {
	ID             string               `json:"id"`
	Person         PersonSummary        `json:"person"`
	Course         CourseSummary        `json:"course"`
	EnrollmentDate models.Date          `json:"enrollment_date"`
	ChargedAmount  decimal.Decimal      `json:"charged_amount"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	DueDate        models.Date          `json:"due_date"`
}

// NewEnrollmentView projects an enrollment together with its person and course.
func NewEnrollmentView(e models.Enrollment, p models.Person, c models.Course) EnrollmentView {
	return EnrollmentView{
		ID:             e.ID,
		Person:         PersonSummary{ID: p.ID, Name: p.Name, CPF: p.CPF},
		Course:         CourseSummary{ID: c.ID, Name: c.Name, Price: c.Price, DurationHours: c.DurationHours},
		EnrollmentDate: e.EnrollmentDate,
		ChargedAmount:  e.ChargedAmount,
		PaymentStatus:  e.PaymentStatus,
		DueDate:        e.DueDate,
	}
}

// EnrollmentViewFromDetail projects a joined enrollment row.
func EnrollmentViewFromDetail(d models.EnrollmentDetail) EnrollmentView {
	return NewEnrollmentView(
		d.Enrollment,
		models.Person{ID: d.PersonID, Name: d.PersonName, CPF: d.PersonCPF},
		models.Course{ID: d.CourseID, Name: d.CourseName, Price: d.CoursePrice, DurationHours: d.CourseDurationHours},
	)
}

// EnrollmentViewsFromDetails projects joined rows keeping their order.
func EnrollmentViewsFromDetails(details []models.EnrollmentDetail) []EnrollmentView {
	views := make([]EnrollmentView, 0, len(details))
	for _, d := range details {
		views = append(views, EnrollmentViewFromDetail(d))
	}
	return views
}
