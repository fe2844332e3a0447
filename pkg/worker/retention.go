package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/repository"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
)

var retentionDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "retention_rows_deleted_total",
	Help: "Rows removed by the retention sweeper, by data category",
}, []string{"data_type"})

// RetentionSweeper enforces the GDPR retention schedule: expired audit
// logs, old cancelled appointments and processed outbox events are
// removed on a fixed interval. Only categories marked for automatic
// deletion are touched.
type RetentionSweeper struct {
	appointments repository.AppointmentRepository
	audits       repository.AuditRepository
	outbox       repository.OutboxRepository
	cat          *catalog.Catalog
	interval     time.Duration
	logger       *logger.Logger
}

func NewRetentionSweeper(
	appointments repository.AppointmentRepository,
	audits repository.AuditRepository,
	outbox repository.OutboxRepository,
	cat *catalog.Catalog,
	interval time.Duration,
	logger *logger.Logger,
) *RetentionSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RetentionSweeper{
		appointments: appointments,
		audits:       audits,
		outbox:       outbox,
		cat:          cat,
		interval:     interval,
		logger:       logger,
	}
}

func (s *RetentionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("starting retention sweeper")
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down retention sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RetentionSweeper) sweep(ctx context.Context) {
	now := time.Now()

	if policy, ok := s.cat.RetentionFor("audit_logs"); ok && policy.AutoDelete {
		cutoff := now.AddDate(0, 0, -policy.Days)
		deleted, err := s.audits.Cleanup(ctx, cutoff)
		if err != nil {
			s.logger.Error(err, "audit log cleanup failed")
		} else if deleted > 0 {
			retentionDeleted.WithLabelValues("audit_logs").Add(float64(deleted))
			s.logger.Info("expired audit logs removed", "count", deleted)
		}
	}

	if policy, ok := s.cat.RetentionFor("appointment_history"); ok && policy.AutoDelete {
		cutoff := now.AddDate(0, 0, -policy.Days)
		deleted, err := s.appointments.DeleteCancelledBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error(err, "appointment history cleanup failed")
		} else if deleted > 0 {
			retentionDeleted.WithLabelValues("appointment_history").Add(float64(deleted))
			s.logger.Info("expired cancelled appointments removed", "count", deleted)
		}
	}

	// Processed outbox rows have no user data obligations, they just
	// accumulate; a week of history is enough for debugging.
	deleted, err := s.outbox.DeleteProcessedBefore(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		s.logger.Error(err, "outbox cleanup failed")
	} else if deleted > 0 {
		retentionDeleted.WithLabelValues("outbox_events").Add(float64(deleted))
	}
}
