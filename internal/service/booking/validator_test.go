package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	cat, err := catalog.NewCzech()
	require.NoError(t, err)
	v := NewValidator(cat, 10)
	// Pin the clock so future-date checks are deterministic.
	v.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, cat.Business.Location)
	}
	return v
}

// prague builds a local wall-clock instant for validation tests.
func prague(t *testing.T, year int, month time.Month, day, hour int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	return time.Date(year, month, day, hour, 0, 0, 0, loc)
}

func validRequest(t *testing.T) *BookingRequest {
	return &BookingRequest{
		DoctorID:         "c7f2b6a0-8f43-4f1f-9a65-2f1f5b1f0a10",
		AppointmentDate:  prague(t, 2025, time.June, 3, 10), // Tuesday
		ConsultationType: "in-person",
		Reason:           "Bolest hlavy trvající týden",
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	v := testValidator(t)
	assert.NoError(t, v.Validate(validRequest(t)))
}

func TestValidateRequiredFields(t *testing.T) {
	v := testValidator(t)

	err := v.Validate(&BookingRequest{})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Violations, msgDoctorRequired)
	assert.Contains(t, vErr.Violations, msgDateRequired)
	assert.Contains(t, vErr.Violations, msgTypeRequired)
	assert.Contains(t, vErr.Violations, msgReasonTooShort)
}

func TestValidateReasonLength(t *testing.T) {
	v := testValidator(t)

	req := validRequest(t)
	req.Reason = "Bolest"
	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgReasonTooShort)

	// Whitespace does not count toward the minimum.
	req.Reason = "   Bolest   "
	assert.Error(t, v.Validate(req))
}

func TestValidatePastDate(t *testing.T) {
	v := testValidator(t)

	req := validRequest(t)
	req.AppointmentDate = prague(t, 2025, time.May, 28, 10)
	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgNotInFuture)
}

func TestValidateHoliday(t *testing.T) {
	v := testValidator(t)

	req := validRequest(t)
	req.AppointmentDate = prague(t, 2025, time.December, 25, 10)
	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgHoliday)
}

func TestValidateBusinessHours(t *testing.T) {
	v := testValidator(t)

	req := validRequest(t)
	req.AppointmentDate = prague(t, 2025, time.June, 3, 7)
	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgOutsideHours)

	// 18:00 is already outside the window.
	req.AppointmentDate = prague(t, 2025, time.June, 3, 18)
	assert.Error(t, v.Validate(req))

	// 17:00 is the last bookable hour.
	req.AppointmentDate = prague(t, 2025, time.June, 3, 17)
	assert.NoError(t, v.Validate(req))
}

func TestValidateWeekend(t *testing.T) {
	v := testValidator(t)

	req := validRequest(t)
	req.AppointmentDate = prague(t, 2025, time.June, 7, 10) // Saturday
	err := v.Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), msgWeekend)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	v := testValidator(t)

	req := &BookingRequest{
		DoctorID:         "",
		AppointmentDate:  prague(t, 2025, time.June, 8, 6), // Sunday, before opening
		ConsultationType: "in-person",
		Reason:           "Kašel",
	}

	err := v.Validate(req)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{
		msgDoctorRequired,
		msgReasonTooShort,
		msgOutsideHours,
		msgWeekend,
	}, vErr.Violations)

	// The combined message joins every violation.
	assert.Equal(t, len(vErr.Violations)-1, strings.Count(err.Error(), ", "))
}
