package notification

import (
	"context"
	"fmt"

	"github.com/doktor-na-dohled/booking-api/internal/email"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

// Service sends patient-facing notices. Every method is best-effort: the
// booking flow logs failures and moves on.
type Service interface {
	SendBookingConfirmation(ctx context.Context, apt *model.Appointment, doctor *model.Doctor, patient *model.Patient) error
	SendCancellationNotice(ctx context.Context, apt *model.Appointment, patient *model.Patient, reason string) error
}

type service struct {
	emailSvc email.Service
	logger   *logger.Logger
}

func NewService(emailSvc email.Service, logger *logger.Logger) Service {
	return &service{emailSvc: emailSvc, logger: logger}
}

func (s *service) SendBookingConfirmation(ctx context.Context, apt *model.Appointment, doctor *model.Doctor, patient *model.Patient) error {
	if patient.Email == "" {
		s.logger.Warn("skipping confirmation, patient has no email",
			"appointment_id", apt.ID.String())
		return nil
	}

	subject := "Potvrzení termínu"
	body := fmt.Sprintf(
		"Dobrý den,\n\nváš termín u lékaře %s %s byl úspěšně rezervován.\n\nDatum a čas: %s\nTyp konzultace: %s\nDélka: %d minut\n",
		doctor.FirstName, doctor.LastName,
		apt.AppointmentDate.Format("2.1.2006 15:04"),
		apt.ConsultationType,
		apt.DurationMinutes,
	)
	if apt.TelemedicineLink != nil {
		body += fmt.Sprintf("\nOdkaz na videokonzultaci: %s\n", *apt.TelemedicineLink)
	}

	return s.emailSvc.Send(ctx, patient.Email, subject, body)
}

func (s *service) SendCancellationNotice(ctx context.Context, apt *model.Appointment, patient *model.Patient, reason string) error {
	if patient.Email == "" {
		s.logger.Warn("skipping cancellation notice, patient has no email",
			"appointment_id", apt.ID.String())
		return nil
	}

	subject := "Zrušení termínu"
	body := fmt.Sprintf(
		"Dobrý den,\n\nváš termín dne %s byl zrušen.\nDůvod: %s\n",
		apt.AppointmentDate.Format("2.1.2006 15:04"),
		reason,
	)

	return s.emailSvc.Send(ctx, patient.Email, subject, body)
}
