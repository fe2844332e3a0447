package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

var (
	// ErrDayUnavailable means the doctor has no bookable schedule for the
	// date. Store failures map here too: availability that cannot be read
	// is treated as no availability, never as a free slot.
	ErrDayUnavailable = errors.New("doctor not available on date")
	// ErrSlotTaken means no free slot covers the requested time, or a
	// concurrent reservation won the write race.
	ErrSlotTaken = errors.New("slot not available")
)

// Service owns every flip of a slot's booked state.
type Service struct {
	repo   repository.AvailabilityRepository
	logger *logger.Logger
}

func NewService(repo repository.AvailabilityRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Reserve books the slot covering wallClock for the appointment and
// persists the full day schedule. The version predicate on the write
// turns a lost race into ErrSlotTaken instead of a silent overwrite.
func (s *Service) Reserve(ctx context.Context, doctorID uuid.UUID, date, wallClock string, appointmentID uuid.UUID) error {
	record, err := s.repo.Fetch(ctx, doctorID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDayUnavailable
		}
		s.logger.Error(err, "availability fetch failed, failing closed",
			"doctor_id", doctorID.String(), "date", date)
		return ErrDayUnavailable
	}
	if !record.IsAvailable {
		return ErrDayUnavailable
	}

	idx, err := FindOpenSlot(record, wallClock)
	if err != nil {
		return ErrSlotTaken
	}

	updated, err := Reserve(record, idx, appointmentID)
	if err != nil {
		return ErrSlotTaken
	}

	if err := ValidateSlots(updated.TimeSlots); err != nil {
		return fmt.Errorf("invalid schedule for doctor %s on %s: %w", doctorID, date, err)
	}

	if err := s.repo.Persist(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Warn("reservation lost version race",
				"doctor_id", doctorID.String(), "date", date, "time", wallClock)
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to persist reservation: %w", err)
	}
	return nil
}

const releaseAttempts = 3

// Release frees the slot covering wallClock. A drifted schedule (no
// matching or already-free slot) is logged and ignored so cancellations
// always succeed. A lost version race is retried on the fresh record.
func (s *Service) Release(ctx context.Context, doctorID uuid.UUID, date, wallClock string) error {
	var lastErr error
	for attempt := 0; attempt < releaseAttempts; attempt++ {
		record, err := s.repo.Fetch(ctx, doctorID, date)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("release skipped, no availability record",
					"doctor_id", doctorID.String(), "date", date)
				return nil
			}
			return fmt.Errorf("failed to fetch availability for release: %w", err)
		}

		updated, changed := Release(record, wallClock)
		if !changed {
			s.logger.Warn("release was a no-op, slot already free or missing",
				"doctor_id", doctorID.String(), "date", date, "time", wallClock)
			return nil
		}

		err = s.repo.Persist(ctx, updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return fmt.Errorf("failed to persist release: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("failed to persist release after %d attempts: %w", releaseAttempts, lastErr)
}
