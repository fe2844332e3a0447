package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one bookable range on a doctor's day schedule. Times are
// local wall-clock "HH:MM" strings, matching the persisted JSONB shape.
type TimeSlot struct {
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	IsBooked      bool       `json:"is_booked"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
}

// Contains reports whether the wall-clock time t ("HH:MM") falls inside
// the slot range, start inclusive, end exclusive.
func (s TimeSlot) Contains(t string) bool {
	return s.StartTime <= t && t < s.EndTime
}

// TimeSlots is stored as a single JSONB column so the whole day schedule
// is always replaced atomically.
type TimeSlots []TimeSlot

func (s TimeSlots) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *TimeSlots) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	default:
		return fmt.Errorf("unsupported time_slots type %T", src)
	}
}

// DoctorAvailability is one calendar date of one doctor's schedule.
// Version backs the optimistic-concurrency check on every write.
type DoctorAvailability struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DoctorID    uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Date        time.Time `db:"date" json:"date"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
	TimeSlots   TimeSlots `db:"time_slots" json:"time_slots"`
	Version     int       `db:"version" json:"version"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy so reconciler mutations never alias the
// record handed to callers.
func (a *DoctorAvailability) Clone() *DoctorAvailability {
	if a == nil {
		return nil
	}
	out := *a
	out.TimeSlots = make(TimeSlots, len(a.TimeSlots))
	copy(out.TimeSlots, a.TimeSlots)
	return &out
}
