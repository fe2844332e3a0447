package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

const doctorColumns = `
	id, first_name, last_name, specialization, description, city, region,
	address, phone, email, rating, review_count, accepts_new_patients,
	accepted_insurances, consultation_types, languages, verified,
	license_number, created_at, updated_at
`

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT` + doctorColumns + `FROM doctors WHERE id = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Search(ctx context.Context, filters *model.DoctorSearchFilters) ([]*model.Doctor, int, error) {
	where := " WHERE verified = true"
	args := []interface{}{}
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where += " AND " + fmt.Sprintf(clause, len(args))
	}

	if filters.Query != "" {
		add("(first_name ILIKE '%%' || $%d || '%%' OR last_name ILIKE '%%' || $%[1]d || '%%' OR specialization ILIKE '%%' || $%[1]d || '%%')", filters.Query)
	}
	if filters.Specialization != "" {
		add("specialization = $%d", filters.Specialization)
	}
	if filters.Region != "" {
		add("region = $%d", filters.Region)
	}
	if filters.City != "" {
		add("city ILIKE $%d", filters.City)
	}
	if filters.Insurance != "" {
		add("$%d = ANY(accepted_insurances)", filters.Insurance)
	}
	if filters.AcceptsNewPatients {
		where += " AND accepts_new_patients = true"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM doctors`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	offset := (filters.Page - 1) * filters.Limit
	query := fmt.Sprintf(`SELECT`+doctorColumns+`FROM doctors%s ORDER BY rating DESC, review_count DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, offset)

	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search doctors: %w", err)
	}
	return doctors, total, nil
}
