package model

import (
	"time"

	"github.com/google/uuid"
)

// ConsentRecord is one consent decision. Records are append-only: a
// revocation is a new record with Given=false, so the table doubles as
// the consent history.
type ConsentRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	ConsentType string    `db:"consent_type" json:"consent_type"`
	Given       bool      `db:"consent_given" json:"consent_given"`
	IPAddress   string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent   string    `db:"user_agent" json:"user_agent,omitempty"`
	Version     string    `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ConsentState is the current decision for one consent type.
type ConsentState struct {
	Given     bool      `json:"given"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordConsentRequest is the POST /gdpr/consents body.
type RecordConsentRequest struct {
	ConsentType  string `json:"consentType" binding:"required,oneof=data_processing telemedicine chat analytics marketing"`
	ConsentGiven *bool  `json:"consentGiven" binding:"required"`
	Version      string `json:"version" binding:"omitempty,max=20"`
}

// EraseDataRequest is the POST /gdpr/erasure body. An empty dataTypes
// list means everything erasable.
type EraseDataRequest struct {
	DataTypes []string `json:"dataTypes" binding:"omitempty,dive,oneof=appointments consents profile medical"`
	Reason    string   `json:"reason" binding:"required,max=500"`
}

type ConsentFilters struct {
	UserID      uuid.UUID
	ConsentType string
	Limit       int
	Offset      int
}
