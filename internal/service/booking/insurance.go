package booking

import (
	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/model"
)

const (
	msgNoInsuranceOnFile  = "Údaje o pojištění nejsou k dispozici"
	msgInsurerNotAccepted = "Pojišťovna není v seznamu akceptovaných pojišťoven"
	msgInsuranceAccepted  = "Pojištění je akceptováno"
)

// InsuranceChecker computes the informational verification outcome
// attached to every booking. It never blocks on its own; the orchestrator
// decides based on policy.
type InsuranceChecker struct {
	cat *catalog.Catalog
}

func NewInsuranceChecker(cat *catalog.Catalog) *InsuranceChecker {
	return &InsuranceChecker{cat: cat}
}

// Check compares the patient's on-file insurer against the doctor's
// accepted list. Verified requires both an insurer on file and doctor
// acceptance; the message distinguishes the two failure modes.
func (c *InsuranceChecker) Check(patient *model.Patient, doctor *model.Doctor) model.InsuranceStatus {
	if patient == nil || patient.InsuranceProvider == nil || *patient.InsuranceProvider == "" {
		return model.InsuranceStatus{
			Verified: false,
			Provider: nil,
			Message:  msgNoInsuranceOnFile,
		}
	}

	code := *patient.InsuranceProvider
	var provider *string
	if name, ok := c.cat.InsuranceProviderName(code); ok {
		provider = &name
	}

	if !doctor.AcceptsInsurance(code) {
		return model.InsuranceStatus{
			Verified: false,
			Provider: provider,
			Message:  msgInsurerNotAccepted,
		}
	}

	return model.InsuranceStatus{
		Verified: true,
		Provider: provider,
		Message:  msgInsuranceAccepted,
	}
}

// PaymentStatusFor maps the verification outcome to the placeholder
// payment policy: verified insurance counts as covered.
func PaymentStatusFor(status model.InsuranceStatus) model.PaymentStatus {
	if status.Verified {
		return model.PaymentStatusPaid
	}
	return model.PaymentStatusPending
}
