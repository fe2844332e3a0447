package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Doctor struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	FirstName          string         `db:"first_name" json:"first_name"`
	LastName           string         `db:"last_name" json:"last_name"`
	Specialization     string         `db:"specialization" json:"specialization"`
	Description        string         `db:"description" json:"description,omitempty"`
	City               string         `db:"city" json:"city"`
	Region             string         `db:"region" json:"region"`
	Address            string         `db:"address" json:"address"`
	Phone              string         `db:"phone" json:"phone"`
	Email              string         `db:"email" json:"email,omitempty"`
	Rating             float64        `db:"rating" json:"rating"`
	ReviewCount        int            `db:"review_count" json:"review_count"`
	AcceptsNewPatients bool           `db:"accepts_new_patients" json:"accepts_new_patients"`
	AcceptedInsurances pq.StringArray `db:"accepted_insurances" json:"insurance_accepted"`
	ConsultationTypes  pq.StringArray `db:"consultation_types" json:"consultation_types"`
	Languages          pq.StringArray `db:"languages" json:"languages"`
	Verified           bool           `db:"verified" json:"verified"`
	LicenseNumber      string         `db:"license_number" json:"license_number,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// OffersConsultationType reports whether the doctor lists the given
// consultation modality.
func (d *Doctor) OffersConsultationType(ct ConsultationType) bool {
	for _, t := range d.ConsultationTypes {
		if t == string(ct) {
			return true
		}
	}
	return false
}

// AcceptsInsurance reports whether the 3-digit insurer code is on the
// doctor's accepted list.
func (d *Doctor) AcceptsInsurance(code string) bool {
	for _, c := range d.AcceptedInsurances {
		if c == code {
			return true
		}
	}
	return false
}

type DoctorSearchFilters struct {
	Query              string
	Specialization     string
	Region             string
	City               string
	Insurance          string
	AcceptsNewPatients bool
	Page               int
	Limit              int
}
