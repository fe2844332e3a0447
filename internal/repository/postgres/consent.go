package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
)

type consentRepository struct {
	db *sqlx.DB
}

func NewConsentRepository(db *sqlx.DB) repository.ConsentRepository {
	return &consentRepository{db: db}
}

const consentColumns = `
	id, user_id, consent_type, consent_given, ip_address, user_agent,
	version, created_at
`

func (r *consentRepository) Create(ctx context.Context, record *model.ConsentRecord) error {
	query := `
		INSERT INTO gdpr_consent (
			id, user_id, consent_type, consent_given, ip_address, user_agent,
			version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.ConsentType,
		record.Given,
		record.IPAddress,
		record.UserAgent,
		record.Version,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consent record: %w", err)
	}
	return nil
}

func (r *consentRepository) List(ctx context.Context, filters *model.ConsentFilters) ([]*model.ConsentRecord, int, error) {
	where := " WHERE user_id = $1"
	args := []interface{}{filters.UserID}
	if filters.ConsentType != "" {
		args = append(args, filters.ConsentType)
		where += fmt.Sprintf(" AND consent_type = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM gdpr_consent`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count consent records: %w", err)
	}

	query := fmt.Sprintf(`SELECT`+consentColumns+`FROM gdpr_consent%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	var records []*model.ConsentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list consent records: %w", err)
	}
	return records, total, nil
}

func (r *consentRepository) LatestPerType(ctx context.Context, userID uuid.UUID) ([]*model.ConsentRecord, error) {
	query := `
		SELECT DISTINCT ON (consent_type)` + consentColumns + `
		FROM gdpr_consent
		WHERE user_id = $1
		ORDER BY consent_type, created_at DESC
	`
	var records []*model.ConsentRecord
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load consent status: %w", err)
	}
	return records, nil
}

func (r *consentRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM gdpr_consent WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete consent records: %w", err)
	}
	return result.RowsAffected()
}
