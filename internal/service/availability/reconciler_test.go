package availability

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doktor-na-dohled/booking-api/internal/model"
)

func daySchedule(slots ...model.TimeSlot) *model.DoctorAvailability {
	return &model.DoctorAvailability{
		ID:          uuid.New(),
		DoctorID:    uuid.New(),
		IsAvailable: true,
		TimeSlots:   model.TimeSlots(slots),
		Version:     1,
	}
}

func slot(start, end string) model.TimeSlot {
	return model.TimeSlot{StartTime: start, EndTime: end}
}

func bookedSlot(start, end string) model.TimeSlot {
	id := uuid.New()
	return model.TimeSlot{StartTime: start, EndTime: end, IsBooked: true, AppointmentID: &id}
}

func TestFindOpenSlot(t *testing.T) {
	record := daySchedule(
		slot("08:00", "08:30"),
		bookedSlot("08:30", "09:00"),
		slot("09:00", "09:30"),
	)

	idx, err := FindOpenSlot(record, "08:15")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	// A booked slot covering the time is not a match.
	_, err = FindOpenSlot(record, "08:45")
	assert.ErrorIs(t, err, ErrNoOpenSlot)

	// Slot end is exclusive.
	idx, err = FindOpenSlot(record, "09:00")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = FindOpenSlot(record, "12:00")
	assert.ErrorIs(t, err, ErrNoOpenSlot)
}

func TestFindOpenSlotPrefersFirstInSourceOrder(t *testing.T) {
	record := daySchedule(
		slot("10:00", "11:00"),
		slot("10:00", "11:00"),
	)

	idx, err := FindOpenSlot(record, "10:30")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestReserveDoesNotMutateInput(t *testing.T) {
	record := daySchedule(slot("08:00", "08:30"))
	aptID := uuid.New()

	updated, err := Reserve(record, 0, aptID)
	require.NoError(t, err)

	assert.True(t, updated.TimeSlots[0].IsBooked)
	require.NotNil(t, updated.TimeSlots[0].AppointmentID)
	assert.Equal(t, aptID, *updated.TimeSlots[0].AppointmentID)

	assert.False(t, record.TimeSlots[0].IsBooked)
	assert.Nil(t, record.TimeSlots[0].AppointmentID)
}

func TestReserveBookedSlotFails(t *testing.T) {
	record := daySchedule(bookedSlot("08:00", "08:30"))

	_, err := Reserve(record, 0, uuid.New())
	assert.ErrorIs(t, err, ErrNoOpenSlot)
}

func TestReleaseFreesBookedSlot(t *testing.T) {
	record := daySchedule(bookedSlot("08:00", "08:30"), slot("08:30", "09:00"))

	updated, changed := Release(record, "08:10")
	require.True(t, changed)
	assert.False(t, updated.TimeSlots[0].IsBooked)
	assert.Nil(t, updated.TimeSlots[0].AppointmentID)

	// Input untouched.
	assert.True(t, record.TimeSlots[0].IsBooked)
}

func TestReleaseIsIdempotent(t *testing.T) {
	record := daySchedule(bookedSlot("08:00", "08:30"))

	first, changed := Release(record, "08:00")
	require.True(t, changed)

	second, changed := Release(first, "08:00")
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestReleaseWithNoMatchingSlot(t *testing.T) {
	record := daySchedule(slot("08:00", "08:30"))

	_, changed := Release(record, "14:00")
	assert.False(t, changed)
}

func TestValidateSlots(t *testing.T) {
	assert.NoError(t, ValidateSlots(model.TimeSlots{
		slot("08:00", "08:30"),
		slot("08:30", "09:00"),
	}))

	err := ValidateSlots(model.TimeSlots{
		slot("08:00", "09:00"),
		slot("08:30", "09:30"),
	})
	assert.ErrorIs(t, err, ErrOverlappingSlots)

	// Inverted range.
	assert.Error(t, ValidateSlots(model.TimeSlots{slot("09:00", "08:00")}))

	assert.NoError(t, ValidateSlots(nil))
}
