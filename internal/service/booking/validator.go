package booking

import (
	"strings"
	"time"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
)

// Validation messages shown to patients.
const (
	msgDoctorRequired   = "ID lékaře je povinné"
	msgDateRequired     = "Datum termínu je povinný"
	msgTypeRequired     = "Typ konzultace je povinný"
	msgReasonTooShort   = "Důvod návštěvy musí mít alespoň 10 znaků"
	msgNotInFuture      = "Termín musí být v budoucnosti"
	msgHoliday          = "Termín nelze rezervovat na státní svátek"
	msgOutsideHours     = "Termín musí být v pracovní době (8:00 - 18:00)"
	msgWeekend          = "Termín nelze rezervovat na víkend"
)

// ValidationError carries every rule violation found in one pass,
// combined into a single user-facing message.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// BookingRequest is the validator's view of a booking attempt after the
// transport layer has parsed it.
type BookingRequest struct {
	DoctorID         string
	AppointmentDate  time.Time
	ConsultationType string
	Reason           string
	Symptoms         []string
}

// Validator rejects structurally or temporally invalid booking requests
// before any external state is touched. All rules run; violations are
// reported together.
type Validator struct {
	cat             *catalog.Catalog
	minReasonLength int
	now             func() time.Time
}

func NewValidator(cat *catalog.Catalog, minReasonLength int) *Validator {
	return &Validator{
		cat:             cat,
		minReasonLength: minReasonLength,
		now:             time.Now,
	}
}

func (v *Validator) Validate(req *BookingRequest) error {
	var violations []string

	if req.DoctorID == "" {
		violations = append(violations, msgDoctorRequired)
	}
	if req.AppointmentDate.IsZero() {
		violations = append(violations, msgDateRequired)
	}
	if req.ConsultationType == "" {
		violations = append(violations, msgTypeRequired)
	}
	if len(strings.TrimSpace(req.Reason)) < v.minReasonLength {
		violations = append(violations, msgReasonTooShort)
	}

	if !req.AppointmentDate.IsZero() {
		if !req.AppointmentDate.After(v.now()) {
			violations = append(violations, msgNotInFuture)
		}
		if _, holiday := v.cat.IsHoliday(req.AppointmentDate); holiday {
			violations = append(violations, msgHoliday)
		}
		if !v.cat.InBusinessHours(req.AppointmentDate) {
			violations = append(violations, msgOutsideHours)
		}
		if v.cat.IsWeekend(req.AppointmentDate) {
			violations = append(violations, msgWeekend)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
