package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient mirrors the user_profiles row kept by the auth provider.
type Patient struct {
	UserID            uuid.UUID `db:"user_id" json:"user_id"`
	FullName          string    `db:"full_name" json:"full_name"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone,omitempty"`
	InsuranceProvider *string   `db:"insurance_provider" json:"insurance_provider,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
