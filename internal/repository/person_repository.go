package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-admin-api/internal/models"
)

const personColumns = "id, name, cpf, birth_date, email, phone, created_at, updated_at"

// PersonRepository manages persistence for person records.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create inserts a new person.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if person.CreatedAt.IsZero() {
		person.CreatedAt = now
	}
	person.UpdatedAt = now
	const query = `INSERT INTO persons (id, name, cpf, birth_date, email, phone, created_at, updated_at)
        VALUES (:id, :name, :cpf, :birth_date, :email, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// FindByID returns the person with the given id or sql.ErrNoRows.
func (r *PersonRepository) FindByID(ctx context.Context, id string) (*models.Person, error) {
	query := r.db.Rebind("SELECT " + personColumns + " FROM persons WHERE id = ?")
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		return nil, err
	}
	return &person, nil
}

// FindByCPF returns the person holding the cpf or sql.ErrNoRows.
func (r *PersonRepository) FindByCPF(ctx context.Context, cpf string) (*models.Person, error) {
	query := r.db.Rebind("SELECT " + personColumns + " FROM persons WHERE cpf = ?")
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, cpf); err != nil {
		return nil, err
	}
	return &person, nil
}

// List returns every person ordered by name.
func (r *PersonRepository) List(ctx context.Context) ([]models.Person, error) {
	query := "SELECT " + personColumns + " FROM persons ORDER BY name ASC, id ASC"
	var persons []models.Person
	if err := r.db.SelectContext(ctx, &persons, query); err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

// Update overwrites the mutable fields of a person.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()
	const query = `UPDATE persons SET name = :name, cpf = :cpf, birth_date = :birth_date, email = :email, phone = :phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return nil
}

// Delete removes a person.
func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM persons WHERE id = ?"), id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

// ExistsByID reports whether a person with the id exists.
func (r *PersonRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, "SELECT 1 FROM persons WHERE id = ? LIMIT 1", "check person", id)
}

func exists(ctx context.Context, db *sqlx.DB, query, op string, args ...interface{}) (bool, error) {
	var found int
	if err := db.GetContext(ctx, &found, db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
