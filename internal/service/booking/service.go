package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/config"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/internal/service/audit"
	"github.com/doktor-na-dohled/booking-api/internal/service/availability"
	"github.com/doktor-na-dohled/booking-api/internal/service/notification"
	"github.com/doktor-na-dohled/booking-api/internal/service/telemedicine"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
	"github.com/doktor-na-dohled/booking-api/pkg/redislock"
)

// Booking policy messages.
const (
	msgDoctorNotFound      = "Lékař nebyl nalezen"
	msgAppointmentNotFound = "Termín nebyl nalezen"
	msgTypeNotOffered      = "Lékař neposkytuje tento typ konzultace"
	msgDateMalformed       = "Neplatný formát data termínu"
	msgPatientMalformed    = "Neplatné ID pacienta"
	msgDayUnavailable      = "Lékař není v tento den dostupný"
	msgSlotTaken           = "V tento čas není dostupný termín"
	msgCancelLeadTime      = "Termín lze zrušit pouze 24 hodin předem"
	msgAlreadyCancelled    = "Termín je již zrušen"
	msgCreateFailed        = "Chyba při vytváření termínu"
	msgListFailed          = "Chyba při načítání termínů"
	msgUpdateFailed        = "Chyba při aktualizaci termínu"
	msgCancelFailed        = "Chyba při rušení termínu"
)

var (
	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_attempts_total",
		Help: "Booking attempts by outcome",
	}, []string{"outcome"})
	slotConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_slot_conflicts_total",
		Help: "Reservations rejected because the slot was taken or the write lost a race",
	})
	cancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_cancellations_total",
		Help: "Cancellation attempts by outcome",
	}, []string{"outcome"})
)

// RequestMeta carries transport context for the audit trail.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Service sequences a booking attempt: validation, doctor resolution,
// slot reservation, appointment persistence, then best-effort side
// effects. Failures before persistence leave no external state behind.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	outbox       repository.OutboxRepository
	schedule     *availability.Service
	validator    *Validator
	insurance    *InsuranceChecker
	auditor      *audit.Service
	notifier     notification.Service
	telemed      *telemedicine.Service
	locker       redislock.Locker
	cat          *catalog.Catalog
	cfg          config.BookingConfig
	logger       *logger.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	outbox repository.OutboxRepository,
	schedule *availability.Service,
	validator *Validator,
	insurance *InsuranceChecker,
	auditor *audit.Service,
	notifier notification.Service,
	telemed *telemedicine.Service,
	locker redislock.Locker,
	cat *catalog.Catalog,
	cfg config.BookingConfig,
	logger *logger.Logger,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		outbox:       outbox,
		schedule:     schedule,
		validator:    validator,
		insurance:    insurance,
		auditor:      auditor,
		notifier:     notifier,
		telemed:      telemed,
		locker:       locker,
		cat:          cat,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateBooking runs the full booking flow. The appointment belongs to
// the authenticated patient unless the request names another patient,
// such as a parent booking for a child.
func (s *Service) CreateBooking(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest, meta RequestMeta) (*model.BookingResult, error) {
	appointmentDate, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		bookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.BadRequest(msgDateMalformed, err)
	}

	if req.PatientID != "" {
		override, err := uuid.Parse(req.PatientID)
		if err != nil {
			bookingsTotal.WithLabelValues("invalid").Inc()
			return nil, apperrors.BadRequest(msgPatientMalformed, err)
		}
		patientID = override
	}

	if err := s.validator.Validate(&BookingRequest{
		DoctorID:         req.DoctorID,
		AppointmentDate:  appointmentDate,
		ConsultationType: req.ConsultationType,
		Reason:           req.Reason,
		Symptoms:         req.Symptoms,
	}); err != nil {
		bookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		bookingsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.BadRequest(msgDoctorRequired, err)
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			bookingsTotal.WithLabelValues("doctor_not_found").Inc()
			return nil, apperrors.NotFound(msgDoctorNotFound, err)
		}
		return nil, apperrors.Internal(msgCreateFailed, err)
	}

	consultationType := model.ConsultationType(req.ConsultationType)
	if !doctor.OffersConsultationType(consultationType) {
		bookingsTotal.WithLabelValues("type_not_offered").Inc()
		return nil, apperrors.BadRequest(msgTypeNotOffered, nil)
	}

	// The insurance outcome is informational unless policy says otherwise.
	patient := s.loadPatient(ctx, patientID)
	insuranceStatus := s.insurance.Check(patient, doctor)
	if s.cfg.RequireInsurance && !insuranceStatus.Verified {
		bookingsTotal.WithLabelValues("insurance_rejected").Inc()
		return nil, apperrors.BadRequest(insuranceStatus.Message, nil)
	}

	now := time.Now()
	apt := &model.Appointment{
		ID:                uuid.New(),
		DoctorID:          doctorID,
		PatientID:         patientID,
		AppointmentDate:   appointmentDate,
		DurationMinutes:   s.cat.ConsultationDuration(req.ConsultationType),
		ConsultationType:  consultationType,
		Status:            model.AppointmentStatusScheduled,
		Priority:          priorityOrDefault(req.Priority),
		Reason:            req.Reason,
		Symptoms:          pq.StringArray(req.Symptoms),
		Notes:             req.Notes,
		InsuranceVerified: insuranceStatus.Verified,
		PaymentStatus:     PaymentStatusFor(insuranceStatus),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	date, wallClock := s.localDayAndTime(appointmentDate)

	err = s.locker.WithScheduleLock(ctx, doctorID, date, func(lockCtx context.Context) error {
		if err := s.schedule.Reserve(lockCtx, doctorID, date, wallClock, apt.ID); err != nil {
			return err
		}
		if err := s.appointments.Create(lockCtx, apt); err != nil {
			// Compensate: the slot was taken but the appointment row never
			// landed, so hand the slot back before reporting failure.
			if relErr := s.schedule.Release(lockCtx, doctorID, date, wallClock); relErr != nil {
				s.logger.Error(relErr, "failed to compensate slot reservation",
					"appointment_id", apt.ID.String())
			}
			return fmt.Errorf("persist appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrDayUnavailable):
			bookingsTotal.WithLabelValues("day_unavailable").Inc()
			return nil, apperrors.BadRequest(msgDayUnavailable, err)
		case errors.Is(err, availability.ErrSlotTaken), errors.Is(err, redislock.ErrLockNotAcquired):
			bookingsTotal.WithLabelValues("slot_conflict").Inc()
			slotConflictsTotal.Inc()
			return nil, apperrors.BadRequest(msgSlotTaken, err)
		default:
			bookingsTotal.WithLabelValues("error").Inc()
			return nil, apperrors.Internal(msgCreateFailed, err)
		}
	}

	s.dispatchBookingSideEffects(ctx, apt, doctor, patient, meta)
	bookingsTotal.WithLabelValues("success").Inc()

	return &model.BookingResult{
		Appointment:     apt,
		InsuranceStatus: insuranceStatus,
	}, nil
}

// dispatchBookingSideEffects runs everything that must not fail the
// booking: audit, outbox event, telemedicine link, confirmation mail.
func (s *Service) dispatchBookingSideEffects(ctx context.Context, apt *model.Appointment, doctor *model.Doctor, patient *model.Patient, meta RequestMeta) {
	if apt.ConsultationType == model.ConsultationTelemedicine {
		link := s.telemed.RoomLink(apt.ID)
		if err := s.appointments.SetTelemedicineLink(ctx, apt.ID, link); err != nil {
			s.logger.Error(err, "failed to persist telemedicine link",
				"appointment_id", apt.ID.String())
		} else {
			apt.TelemedicineLink = &link
		}
	}

	if err := s.auditor.Log(ctx, model.AuditActionCreate, "appointment",
		fmt.Sprintf("Vytvořen termín pro pacienta u lékaře %s %s", doctor.FirstName, doctor.LastName),
		&audit.LogOptions{
			SubjectID:  apt.PatientID.String(),
			LegalBasis: "contract",
			IPAddress:  meta.IPAddress,
			UserAgent:  meta.UserAgent,
			Metadata:   map[string]interface{}{"appointment_id": apt.ID},
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "appointment_id", apt.ID.String())
	}

	s.emitEvent(ctx, model.EventAppointmentCreated, apt)

	if patient != nil {
		if err := s.notifier.SendBookingConfirmation(ctx, apt, doctor, patient); err != nil {
			s.logger.Error(err, "failed to send booking confirmation",
				"appointment_id", apt.ID.String())
		}
	}
}

// ListAppointments returns a page of appointments for the given filters.
func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters, includeDetails bool) (interface{}, int, error) {
	if filters.Limit <= 0 {
		filters.Limit = s.cfg.DefaultListLimit
	}
	if filters.Limit > s.cfg.MaxListLimit {
		filters.Limit = s.cfg.MaxListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	if includeDetails {
		details, total, err := s.appointments.ListDetailed(ctx, filters)
		if err != nil {
			return nil, 0, apperrors.Internal(msgListFailed, err)
		}
		return details, total, nil
	}

	appointments, total, err := s.appointments.List(ctx, filters)
	if err != nil {
		return nil, 0, apperrors.Internal(msgListFailed, err)
	}
	return appointments, total, nil
}

// UpdateAppointment applies a partial update to status and clinical
// fields.
func (s *Service) UpdateAppointment(ctx context.Context, req *model.UpdateAppointmentRequest, meta RequestMeta) (*model.Appointment, error) {
	id, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		return nil, apperrors.BadRequest("ID termínu je povinné", err)
	}

	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgAppointmentNotFound, err)
		}
		return nil, apperrors.Internal(msgUpdateFailed, err)
	}

	if req.Status != nil {
		apt.Status = model.AppointmentStatus(*req.Status)
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}
	if req.Diagnosis != nil {
		apt.Diagnosis = req.Diagnosis
	}
	if req.Prescription != nil {
		apt.Prescription = req.Prescription
	}

	if err := s.appointments.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound(msgAppointmentNotFound, err)
		}
		return nil, apperrors.Internal(msgUpdateFailed, err)
	}

	if err := s.auditor.Log(ctx, model.AuditActionUpdate, "appointment",
		fmt.Sprintf("Aktualizován termín %s", apt.ID),
		&audit.LogOptions{
			SubjectID: apt.PatientID.String(),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "appointment_id", apt.ID.String())
	}
	s.emitEvent(ctx, model.EventAppointmentUpdated, apt)

	return apt, nil
}

// CancelAppointment marks the appointment cancelled and hands its slot
// back. The minimum notice applies unless priority is emergency.
func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string, meta RequestMeta) error {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			cancellationsTotal.WithLabelValues("not_found").Inc()
			return apperrors.NotFound(msgAppointmentNotFound, err)
		}
		return apperrors.Internal(msgCancelFailed, err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		cancellationsTotal.WithLabelValues("already_cancelled").Inc()
		return apperrors.BadRequest(msgAlreadyCancelled, nil)
	}

	if time.Until(apt.AppointmentDate) < s.cfg.CancellationLeadTime && apt.Priority != model.PriorityEmergency {
		cancellationsTotal.WithLabelValues("lead_time").Inc()
		return apperrors.BadRequest(msgCancelLeadTime, nil)
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.Notes = apt.Notes + fmt.Sprintf("\nZrušeno: %s", reason)
	if err := s.appointments.Update(ctx, apt); err != nil {
		return apperrors.Internal(msgCancelFailed, err)
	}

	date, wallClock := s.localDayAndTime(apt.AppointmentDate)
	if err := s.schedule.Release(ctx, apt.DoctorID, date, wallClock); err != nil {
		// The appointment is already cancelled; a stuck slot is repaired
		// by the doctor-side schedule workflow.
		s.logger.Error(err, "failed to release slot after cancellation",
			"appointment_id", apt.ID.String())
	}

	if err := s.auditor.Log(ctx, model.AuditActionDelete, "appointment",
		fmt.Sprintf("Zrušen termín %s: %s", apt.ID, reason),
		&audit.LogOptions{
			SubjectID: apt.PatientID.String(),
			IPAddress: meta.IPAddress,
			UserAgent: meta.UserAgent,
		}); err != nil {
		s.logger.Error(err, "failed to write audit log", "appointment_id", apt.ID.String())
	}
	s.emitEvent(ctx, model.EventAppointmentCancelled, apt)

	if patient := s.loadPatient(ctx, apt.PatientID); patient != nil {
		if err := s.notifier.SendCancellationNotice(ctx, apt, patient, reason); err != nil {
			s.logger.Error(err, "failed to send cancellation notice",
				"appointment_id", apt.ID.String())
		}
	}

	cancellationsTotal.WithLabelValues("success").Inc()
	return nil
}

// loadPatient returns nil when the profile is missing; a booking without
// a profile just gets the no-insurance outcome and no email.
func (s *Service) loadPatient(ctx context.Context, patientID uuid.UUID) *model.Patient {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(err, "failed to load patient profile",
				"patient_id", patientID.String())
		}
		return nil
	}
	return patient
}

func (s *Service) emitEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	payload, err := json.Marshal(map[string]interface{}{
		"appointment_id": apt.ID,
		"doctor_id":      apt.DoctorID,
		"status":         apt.Status,
		"date":           apt.AppointmentDate,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to append outbox event", "event_type", eventType)
	}
}

// localDayAndTime projects an instant onto the clinic calendar: the date
// key of the availability record and the wall-clock slot time.
func (s *Service) localDayAndTime(t time.Time) (date, wallClock string) {
	local := t.In(s.cat.Business.Location)
	return local.Format("2006-01-02"), local.Format("15:04")
}

func priorityOrDefault(p string) model.AppointmentPriority {
	if p == "" {
		return model.PriorityNormal
	}
	return model.AppointmentPriority(p)
}
