package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/pkg/security"
)

// Service writes the GDPR audit trail. Patient references are
// pseudonymized before they hit storage.
type Service struct {
	repo      repository.AuditRepository
	pseudonym *security.Pseudonymizer
}

func NewService(repo repository.AuditRepository, pseudonym *security.Pseudonymizer) *Service {
	return &Service{repo: repo, pseudonym: pseudonym}
}

type LogOptions struct {
	SubjectID  string
	LegalBasis string
	IPAddress  string
	UserAgent  string
	Metadata   interface{}
}

// Log appends one audit record. Failures are the caller's to swallow;
// audit writes never abort the operation they describe.
func (s *Service) Log(ctx context.Context, action model.AuditAction, entityType, description string, opts *LogOptions) error {
	entry := &model.AuditLog{
		ID:          uuid.New(),
		Action:      action,
		EntityType:  entityType,
		Description: description,
		LegalBasis:  "legitimate_interest",
		CreatedAt:   time.Now(),
	}

	if opts != nil {
		if opts.SubjectID != "" {
			subject := s.pseudonym.Pseudonym(opts.SubjectID)
			entry.SubjectID = &subject
		}
		if opts.LegalBasis != "" {
			entry.LegalBasis = opts.LegalBasis
		}
		entry.IPAddress = opts.IPAddress
		entry.UserAgent = opts.UserAgent
		if opts.Metadata != nil {
			metadata, err := json.Marshal(opts.Metadata)
			if err != nil {
				return err
			}
			entry.Metadata = metadata
		}
	}

	return s.repo.Create(ctx, entry)
}

func (s *Service) List(ctx context.Context, entityType string, limit, offset int) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, entityType, limit, offset)
}

func (s *Service) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	return s.repo.Cleanup(ctx, before)
}
