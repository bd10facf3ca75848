package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus describes the billing state of an enrollment.
type PaymentStatus string

// Possible payment statuses.
const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// Valid reports whether the status belongs to the closed set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue:
		return true
	}
	return false
}

// Enrollment links a person to a course with a snapshot of the charged amount.
type Enrollment struct {
	ID             string          `db:"id" json:"id"`
	PersonID       string          `db:"person_id" json:"person_id"`
	CourseID       string          `db:"course_id" json:"course_id"`
	EnrollmentDate Date            `db:"enrollment_date" json:"enrollment_date"`
	ChargedAmount  decimal.Decimal `db:"charged_amount" json:"charged_amount"`
	PaymentStatus  PaymentStatus   `db:"payment_status" json:"payment_status"`
	DueDate        Date            `db:"due_date" json:"due_date"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with person and course info.
type EnrollmentDetail struct {
	Enrollment
	PersonName          string          `db:"person_name" json:"person_name"`
	PersonCPF           string          `db:"person_cpf" json:"person_cpf"`
	CourseName          string          `db:"course_name" json:"course_name"`
	CoursePrice         decimal.Decimal `db:"course_price" json:"course_price"`
	CourseDurationHours int             `db:"course_duration_hours" json:"course_duration_hours"`
}
