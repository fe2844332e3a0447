package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, action, entity_type, description, subject_id, legal_basis,
			ip_address, user_agent, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Action,
		entry.EntityType,
		entry.Description,
		entry.SubjectID,
		entry.LegalBasis,
		entry.IPAddress,
		entry.UserAgent,
		entry.Metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) List(ctx context.Context, entityType string, limit, offset int) ([]*model.AuditLog, error) {
	query := `
		SELECT id, action, entity_type, description, subject_id, legal_basis,
		       ip_address, user_agent, metadata, created_at
		FROM audit_logs
		WHERE entity_type = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var entries []*model.AuditLog
	if err := r.db.SelectContext(ctx, &entries, query, entityType, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return entries, nil
}

func (r *auditRepository) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup audit logs: %w", err)
	}
	return result.RowsAffected()
}
