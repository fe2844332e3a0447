package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in-progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no-show"
)

type AppointmentPriority string

const (
	PriorityNormal    AppointmentPriority = "normal"
	PriorityUrgent    AppointmentPriority = "urgent"
	PriorityEmergency AppointmentPriority = "emergency"
)

type ConsultationType string

const (
	ConsultationInPerson     ConsultationType = "in-person"
	ConsultationTelemedicine ConsultationType = "telemedicine"
	ConsultationPhone        ConsultationType = "phone"
	ConsultationChat         ConsultationType = "chat"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Appointment struct {
	ID                uuid.UUID           `db:"id" json:"id"`
	DoctorID          uuid.UUID           `db:"doctor_id" json:"doctor_id"`
	PatientID         uuid.UUID           `db:"patient_id" json:"patient_id"`
	AppointmentDate   time.Time           `db:"appointment_date" json:"appointment_date"`
	DurationMinutes   int                 `db:"duration_minutes" json:"duration_minutes"`
	ConsultationType  ConsultationType    `db:"consultation_type" json:"consultation_type"`
	Status            AppointmentStatus   `db:"status" json:"status"`
	Priority          AppointmentPriority `db:"priority" json:"priority"`
	Reason            string              `db:"reason" json:"reason"`
	Symptoms          pq.StringArray      `db:"symptoms" json:"symptoms,omitempty"`
	Notes             string              `db:"notes" json:"notes,omitempty"`
	Diagnosis         *string             `db:"diagnosis" json:"diagnosis,omitempty"`
	Prescription      *string             `db:"prescription" json:"prescription,omitempty"`
	InsuranceVerified bool                `db:"insurance_verified" json:"insurance_verified"`
	PaymentStatus     PaymentStatus       `db:"payment_status" json:"payment_status"`
	TelemedicineLink  *string             `db:"telemedicine_link" json:"telemedicine_link,omitempty"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
}

// CreateAppointmentRequest is the POST /appointments body. Unknown fields
// are rejected at the binding layer.
type CreateAppointmentRequest struct {
	DoctorID         string   `json:"doctorId" binding:"required,uuid"`
	PatientID        string   `json:"patientId" binding:"omitempty,uuid"`
	AppointmentDate  string   `json:"appointmentDate" binding:"required"`
	ConsultationType string   `json:"consultationType" binding:"required,oneof=in-person telemedicine phone chat"`
	Reason           string   `json:"reason" binding:"required"`
	Symptoms         []string `json:"symptoms" binding:"omitempty,max=20"`
	Priority         string   `json:"priority" binding:"omitempty,oneof=normal urgent emergency"`
	Notes            string   `json:"notes" binding:"max=1000"`
}

// UpdateAppointmentRequest is the PUT /appointments body; nil fields are
// left untouched.
type UpdateAppointmentRequest struct {
	AppointmentID string  `json:"appointmentId" binding:"required,uuid"`
	Status        *string `json:"status" binding:"omitempty,oneof=scheduled confirmed in-progress completed cancelled no-show"`
	Notes         *string `json:"notes" binding:"omitempty,max=2000"`
	Diagnosis     *string `json:"diagnosis" binding:"omitempty,max=2000"`
	Prescription  *string `json:"prescription" binding:"omitempty,max=2000"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	Limit     int
	Offset    int
}

// InsuranceStatus is the per-booking insurance verification snapshot
// attached to the POST response.
type InsuranceStatus struct {
	Verified bool    `json:"verified"`
	Provider *string `json:"provider"`
	Message  string  `json:"message"`
}

// BookingResult bundles the created appointment with its insurance outcome.
type BookingResult struct {
	Appointment     *Appointment    `json:"appointment"`
	InsuranceStatus InsuranceStatus `json:"insurance_status"`
}

// AppointmentDetail is the hydrated list row returned when includeDetails
// is requested.
type AppointmentDetail struct {
	Appointment
	Doctor  *Doctor  `json:"doctor,omitempty"`
	Patient *Patient `json:"patient,omitempty"`
}
