package telemedicine

import (
	"fmt"

	"github.com/google/uuid"
)

// Service issues per-appointment video room links. The room itself is
// provisioned lazily by the conferencing provider on first join.
type Service struct {
	baseURL string
}

func NewService(baseURL string) *Service {
	return &Service{baseURL: baseURL}
}

// RoomLink returns the join URL for a telemedicine appointment.
func (s *Service) RoomLink(appointmentID uuid.UUID) string {
	return fmt.Sprintf("%s/room/%s", s.baseURL, appointmentID)
}
