package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
)

type availabilityRepository struct {
	db *sqlx.DB
}

func NewAvailabilityRepository(db *sqlx.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) Fetch(ctx context.Context, doctorID uuid.UUID, date string) (*model.DoctorAvailability, error) {
	query := `
		SELECT id, doctor_id, date, is_available, time_slots, version,
		       created_at, updated_at
		FROM doctor_availability
		WHERE doctor_id = $1 AND date = $2
	`
	var record model.DoctorAvailability
	err := r.db.GetContext(ctx, &record, query, doctorID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	return &record, nil
}

// Persist replaces the whole slot list. The version predicate makes the
// write conditional: a record updated since the read leaves zero rows
// affected and the reservation must be retried or rejected.
func (r *availabilityRepository) Persist(ctx context.Context, record *model.DoctorAvailability) error {
	query := `
		UPDATE doctor_availability
		SET time_slots = $1, is_available = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		record.TimeSlots,
		record.IsAvailable,
		time.Now(),
		record.ID,
		record.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to persist availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrVersionConflict
	}

	record.Version++
	return nil
}
