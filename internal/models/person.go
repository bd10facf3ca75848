package models

import "time"

// Person represents an individual registered with the school, usually a student.
type Person struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CPF       string    `db:"cpf" json:"cpf"`
	BirthDate *Date     `db:"birth_date" json:"birth_date,omitempty"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
