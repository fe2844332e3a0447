package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate         AuditAction = "create"
	AuditActionUpdate         AuditAction = "update"
	AuditActionDelete         AuditAction = "delete"
	AuditActionRead           AuditAction = "data_access"
	AuditActionConsentGiven   AuditAction = "consent_given"
	AuditActionConsentRevoked AuditAction = "consent_revoked"
	AuditActionDataExport     AuditAction = "data_export"
	AuditActionDataDeletion   AuditAction = "data_deletion"
)

// AuditLog records one mutating operation for GDPR accountability.
// SubjectID holds a pseudonymized patient reference, never a raw id.
type AuditLog struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Action      AuditAction     `db:"action" json:"action"`
	EntityType  string          `db:"entity_type" json:"entity_type"`
	Description string          `db:"description" json:"description"`
	SubjectID   *string         `db:"subject_id" json:"subject_id,omitempty"`
	LegalBasis  string          `db:"legal_basis" json:"legal_basis"`
	IPAddress   string          `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent   string          `db:"user_agent" json:"user_agent,omitempty"`
	Metadata    json.RawMessage `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
