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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `
	id, doctor_id, patient_id, appointment_date, duration_minutes,
	consultation_type, status, priority, reason, symptoms, notes,
	diagnosis, prescription, insurance_verified, payment_status,
	telemedicine_link, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, appointment_date, duration_minutes,
			consultation_type, status, priority, reason, symptoms, notes,
			insurance_verified, payment_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.AppointmentDate,
		apt.DurationMinutes,
		apt.ConsultationType,
		apt.Status,
		apt.Priority,
		apt.Reason,
		apt.Symptoms,
		apt.Notes,
		apt.InsuranceVerified,
		apt.PaymentStatus,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + `FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, diagnosis = $3, prescription = $4,
		    payment_status = $5, updated_at = $6
		WHERE id = $7
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.Status,
		apt.Notes,
		apt.Diagnosis,
		apt.Prescription,
		apt.PaymentStatus,
		apt.UpdatedAt,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE patient_id = $1`, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete appointments for patient: %w", err)
	}
	return result.RowsAffected()
}

func (r *appointmentRepository) SetTelemedicineLink(ctx context.Context, id uuid.UUID, link string) error {
	query := `UPDATE appointments SET telemedicine_link = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, link, time.Now(), id); err != nil {
		return fmt.Errorf("failed to set telemedicine link: %w", err)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error) {
	where, args := buildAppointmentFilters(filters)

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	query := fmt.Sprintf(`SELECT`+appointmentColumns+`FROM appointments%s ORDER BY appointment_date ASC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) ListDetailed(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, int, error) {
	appointments, total, err := r.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	details := make([]*model.AppointmentDetail, 0, len(appointments))
	for _, apt := range appointments {
		detail := &model.AppointmentDetail{Appointment: *apt}

		var doctor model.Doctor
		err := r.db.GetContext(ctx, &doctor, `SELECT`+doctorColumns+`FROM doctors WHERE id = $1`, apt.DoctorID)
		if err == nil {
			detail.Doctor = &doctor
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("failed to load doctor for appointment %s: %w", apt.ID, err)
		}

		var patient model.Patient
		err = r.db.GetContext(ctx, &patient, `SELECT`+patientColumns+`FROM user_profiles WHERE user_id = $1`, apt.PatientID)
		if err == nil {
			detail.Patient = &patient
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("failed to load patient for appointment %s: %w", apt.ID, err)
		}

		details = append(details, detail)
	}
	return details, total, nil
}

func (r *appointmentRepository) DeleteCancelledBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE status = $1 AND appointment_date < $2`,
		model.AppointmentStatusCancelled, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired appointments: %w", err)
	}
	return result.RowsAffected()
}

func buildAppointmentFilters(filters *model.AppointmentFilters) (string, []interface{}) {
	where := ""
	args := []interface{}{}
	add := func(clause string, arg interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		args = append(args, arg)
		where += fmt.Sprintf(clause, len(args))
	}

	if filters.PatientID != uuid.Nil {
		add("patient_id = $%d", filters.PatientID)
	}
	if filters.DoctorID != uuid.Nil {
		add("doctor_id = $%d", filters.DoctorID)
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	return where, args
}
