package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotContains(t *testing.T) {
	slot := TimeSlot{StartTime: "08:00", EndTime: "08:30"}

	assert.True(t, slot.Contains("08:00"))
	assert.True(t, slot.Contains("08:15"))
	assert.False(t, slot.Contains("08:30"))
	assert.False(t, slot.Contains("07:59"))
}

func TestDoctorAvailabilityCloneIsDeep(t *testing.T) {
	aptID := uuid.New()
	record := &DoctorAvailability{
		ID:       uuid.New(),
		DoctorID: uuid.New(),
		TimeSlots: TimeSlots{
			{StartTime: "08:00", EndTime: "08:30", IsBooked: true, AppointmentID: &aptID},
			{StartTime: "08:30", EndTime: "09:00"},
		},
		Version: 3,
	}

	clone := record.Clone()
	clone.TimeSlots[0].IsBooked = false
	clone.TimeSlots[0].AppointmentID = nil
	clone.TimeSlots[1].IsBooked = true

	assert.True(t, record.TimeSlots[0].IsBooked)
	require.NotNil(t, record.TimeSlots[0].AppointmentID)
	assert.Equal(t, aptID, *record.TimeSlots[0].AppointmentID)
	assert.False(t, record.TimeSlots[1].IsBooked)
}

func TestTimeSlotsScanRoundTrip(t *testing.T) {
	slots := TimeSlots{
		{StartTime: "08:00", EndTime: "08:30"},
		{StartTime: "08:30", EndTime: "09:00", IsBooked: true},
	}

	value, err := slots.Value()
	require.NoError(t, err)

	var scanned TimeSlots
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, slots, scanned)
}
