package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when an optimistic write lost the
	// race against a concurrent update.
	ErrVersionConflict = errors.New("availability record changed since read")
)

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, int, error)
	ListDetailed(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentDetail, int, error)
	SetTelemedicineLink(ctx context.Context, id uuid.UUID, link string) error
	DeleteCancelledBefore(ctx context.Context, before time.Time) (int64, error)
	// DeleteByPatient removes every appointment of one patient; used by
	// the right-to-erasure flow.
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
}

type AvailabilityRepository interface {
	// Fetch returns ErrNotFound when no record exists for the doctor and
	// date.
	Fetch(ctx context.Context, doctorID uuid.UUID, date string) (*model.DoctorAvailability, error)
	// Persist replaces the full slot list. It fails with
	// ErrVersionConflict when the stored version no longer matches the
	// record's.
	Persist(ctx context.Context, record *model.DoctorAvailability) error
}

type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	Search(ctx context.Context, filters *model.DoctorSearchFilters) ([]*model.Doctor, int, error)
}

type PatientRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
	// Delete removes the profile; deleting a missing profile is a no-op.
	Delete(ctx context.Context, userID uuid.UUID) error
}

type ConsentRepository interface {
	Create(ctx context.Context, record *model.ConsentRecord) error
	List(ctx context.Context, filters *model.ConsentFilters) ([]*model.ConsentRecord, int, error)
	// LatestPerType returns the newest record for each consent type the
	// user ever decided on.
	LatestPerType(ctx context.Context, userID uuid.UUID) ([]*model.ConsentRecord, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, entityType string, limit, offset int) ([]*model.AuditLog, error)
	Cleanup(ctx context.Context, before time.Time) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
