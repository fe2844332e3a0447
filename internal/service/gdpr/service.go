// Package gdpr implements the data-subject-rights surface: consent
// recording and history, data export and erasure on request. The
// retention worker handles time-based deletion; this service handles
// the patient-initiated side.
package gdpr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/internal/service/audit"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

const (
	msgConsentSaveFailed = "Chyba při ukládání souhlasu"
	msgHistoryFailed     = "Chyba při načítání historie souhlasů"
	msgStatusFailed      = "Chyba při načítání stavu souhlasů"
	msgExportFailed      = "Chyba při exportu dat"
	msgErasureFailed     = "Chyba při mazání dat"
	msgMedicalRetained   = "Zdravotní záznamy podléhají zákonné archivační lhůtě a nelze je smazat"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
	exportPageLimit     = 1000
	defaultVersion      = "1.0"
)

// Erasable data categories and the catalog policies that guard them.
const (
	DataTypeAppointments = "appointments"
	DataTypeConsents     = "consents"
	DataTypeProfile      = "profile"
	DataTypeMedical      = "medical"
)

// RequestMeta carries transport context for the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// DataExport is the machine-readable bundle handed to the patient.
type DataExport struct {
	Profile      *model.Patient         `json:"profile,omitempty"`
	Appointments []*model.Appointment   `json:"appointments"`
	Consents     []*model.ConsentRecord `json:"consents"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

type Service struct {
	consents     repository.ConsentRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	auditor      *audit.Service
	cat          *catalog.Catalog
	logger       *logger.Logger
}

func NewService(
	consents repository.ConsentRepository,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	auditor *audit.Service,
	cat *catalog.Catalog,
	logger *logger.Logger,
) *Service {
	return &Service{
		consents:     consents,
		appointments: appointments,
		patients:     patients,
		auditor:      auditor,
		cat:          cat,
		logger:       logger,
	}
}

// RecordConsent appends one consent decision. Revocation is the same
// operation with ConsentGiven=false.
func (s *Service) RecordConsent(ctx context.Context, userID uuid.UUID, req *model.RecordConsentRequest, meta RequestMeta) (*model.ConsentRecord, error) {
	record := &model.ConsentRecord{
		ID:          uuid.New(),
		UserID:      userID,
		ConsentType: req.ConsentType,
		Given:       *req.ConsentGiven,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		Version:     req.Version,
		CreatedAt:   time.Now(),
	}
	if record.Version == "" {
		record.Version = defaultVersion
	}

	if err := s.consents.Create(ctx, record); err != nil {
		return nil, apperrors.Internal(msgConsentSaveFailed, err)
	}

	action := model.AuditActionConsentGiven
	verb := "udělen"
	if !record.Given {
		action = model.AuditActionConsentRevoked
		verb = "odvolán"
	}
	if err := s.auditor.Log(ctx, action, "consent",
		fmt.Sprintf("Souhlas %s pro %s", verb, record.ConsentType),
		&audit.LogOptions{
			SubjectID:  userID.String(),
			LegalBasis: "consent",
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "consent_id", record.ID.String())
	}

	return record, nil
}

// ConsentHistory returns the user's consent records, newest first.
func (s *Service) ConsentHistory(ctx context.Context, userID uuid.UUID, consentType string, limit, offset int) ([]*model.ConsentRecord, int, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.consents.List(ctx, &model.ConsentFilters{
		UserID:      userID,
		ConsentType: consentType,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, 0, apperrors.Internal(msgHistoryFailed, err)
	}
	return records, total, nil
}

// ConsentStatus returns the current decision per consent type.
func (s *Service) ConsentStatus(ctx context.Context, userID uuid.UUID) (map[string]model.ConsentState, error) {
	records, err := s.consents.LatestPerType(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(msgStatusFailed, err)
	}

	status := make(map[string]model.ConsentState, len(records))
	for _, r := range records {
		status[r.ConsentType] = model.ConsentState{
			Given:     r.Given,
			Timestamp: r.CreatedAt,
		}
	}
	return status, nil
}

// Export collects all stored data about the patient for the access
// request. A missing profile is not an error: the export then carries
// appointments and consents only.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, meta RequestMeta) (*DataExport, error) {
	export := &DataExport{GeneratedAt: time.Now()}

	profile, err := s.patients.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal(msgExportFailed, err)
	}
	export.Profile = profile

	appointments, _, err := s.appointments.List(ctx, &model.AppointmentFilters{
		PatientID: userID,
		Limit:     exportPageLimit,
	})
	if err != nil {
		return nil, apperrors.Internal(msgExportFailed, err)
	}
	export.Appointments = appointments

	consents, _, err := s.consents.List(ctx, &model.ConsentFilters{
		UserID: userID,
		Limit:  exportPageLimit,
	})
	if err != nil {
		return nil, apperrors.Internal(msgExportFailed, err)
	}
	export.Consents = consents

	if err := s.auditor.Log(ctx, model.AuditActionDataExport, "user_data",
		"Export dat na žádost subjektu údajů",
		&audit.LogOptions{
			SubjectID:  userID.String(),
			LegalBasis: "legal_obligation",
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "user_id", userID.String())
	}

	return export, nil
}

// Erase deletes the requested data categories. Medical records are
// under a statutory retention obligation and cannot be erased on
// request; asking for them fails the whole request so the patient gets
// an honest answer instead of a partial wipe.
func (s *Service) Erase(ctx context.Context, userID uuid.UUID, req *model.EraseDataRequest, meta RequestMeta) (map[string]int64, error) {
	dataTypes := req.DataTypes
	if len(dataTypes) == 0 {
		dataTypes = []string{DataTypeAppointments, DataTypeConsents, DataTypeProfile}
	}

	for _, dt := range dataTypes {
		if dt != DataTypeMedical {
			continue
		}
		if policy, ok := s.cat.RetentionFor("health_records"); ok && policy.LegalBasis == "legal_obligation" {
			return nil, apperrors.Conflict(msgMedicalRetained, nil)
		}
	}

	// The audit entry is written before any deletion so the trail
	// survives even a partial failure.
	if err := s.auditor.Log(ctx, model.AuditActionDataDeletion, "user_data",
		fmt.Sprintf("Požadavek na smazání dat, důvod: %s", req.Reason),
		&audit.LogOptions{
			SubjectID:  userID.String(),
			LegalBasis: "consent",
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "user_id", userID.String())
	}

	deleted := make(map[string]int64, len(dataTypes))
	for _, dt := range dataTypes {
		switch dt {
		case DataTypeAppointments:
			n, err := s.appointments.DeleteByPatient(ctx, userID)
			if err != nil {
				return nil, apperrors.Internal(msgErasureFailed, err)
			}
			deleted[dt] = n
		case DataTypeConsents:
			n, err := s.consents.DeleteByUser(ctx, userID)
			if err != nil {
				return nil, apperrors.Internal(msgErasureFailed, err)
			}
			deleted[dt] = n
		case DataTypeProfile:
			if err := s.patients.Delete(ctx, userID); err != nil {
				return nil, apperrors.Internal(msgErasureFailed, err)
			}
			deleted[dt] = 1
		}
	}

	s.logger.Info("erased user data on request",
		"user_id", userID.String(), "data_types", fmt.Sprintf("%v", dataTypes))
	return deleted, nil
}
