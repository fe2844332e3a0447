package availability

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/model"
)

var (
	// ErrNoOpenSlot means no free slot covers the requested time.
	ErrNoOpenSlot = errors.New("no open slot for requested time")
	// ErrOverlappingSlots rejects a schedule whose ranges overlap.
	ErrOverlappingSlots = errors.New("slot ranges overlap")
)

// FindOpenSlot returns the index of the first unbooked slot whose range
// contains the wall-clock time ("HH:MM"). Source order wins; ranges are
// guaranteed non-overlapping by ValidateSlots so no tie-break is needed.
func FindOpenSlot(record *model.DoctorAvailability, wallClock string) (int, error) {
	for i, slot := range record.TimeSlots {
		if slot.Contains(wallClock) && !slot.IsBooked {
			return i, nil
		}
	}
	return -1, ErrNoOpenSlot
}

// Reserve marks the slot at idx as booked by the appointment and returns a
// new record; the input is left untouched for compensation paths.
func Reserve(record *model.DoctorAvailability, idx int, appointmentID uuid.UUID) (*model.DoctorAvailability, error) {
	if idx < 0 || idx >= len(record.TimeSlots) {
		return nil, fmt.Errorf("slot index %d out of range", idx)
	}
	if record.TimeSlots[idx].IsBooked {
		return nil, ErrNoOpenSlot
	}

	updated := record.Clone()
	id := appointmentID
	updated.TimeSlots[idx].IsBooked = true
	updated.TimeSlots[idx].AppointmentID = &id
	return updated, nil
}

// Release clears the booked mark on the slot containing the wall-clock
// time and returns the new record. A missing or already-free slot returns
// changed=false: a drifted schedule must never fail a cancellation, the
// caller just logs it.
func Release(record *model.DoctorAvailability, wallClock string) (updated *model.DoctorAvailability, changed bool) {
	for i, slot := range record.TimeSlots {
		if slot.Contains(wallClock) {
			if !slot.IsBooked {
				return record, false
			}
			out := record.Clone()
			out.TimeSlots[i].IsBooked = false
			out.TimeSlots[i].AppointmentID = nil
			return out, true
		}
	}
	return record, false
}

// ValidateSlots enforces the non-overlap invariant at write time. Slots
// are compared pairwise on their "HH:MM" ranges.
func ValidateSlots(slots model.TimeSlots) error {
	for i, a := range slots {
		if a.StartTime >= a.EndTime {
			return fmt.Errorf("slot %d: start %s is not before end %s", i, a.StartTime, a.EndTime)
		}
		for j := i + 1; j < len(slots); j++ {
			b := slots[j]
			if a.StartTime < b.EndTime && b.StartTime < a.EndTime {
				return fmt.Errorf("%w: %s-%s and %s-%s",
					ErrOverlappingSlots, a.StartTime, a.EndTime, b.StartTime, b.EndTime)
			}
		}
	}
	return nil
}
