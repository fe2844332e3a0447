package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/config"
	"github.com/doktor-na-dohled/booking-api/internal/repository/postgres"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
	redisBroker "github.com/doktor-na-dohled/booking-api/pkg/messaging/redis"
	"github.com/doktor-na-dohled/booking-api/pkg/worker"
)

// The worker drains the outbox to Redis and enforces data retention. It
// runs separately from the API so event delivery survives API deploys.
func main() {
	l := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Fatal(err, "failed to load configuration")
	}

	cat, err := catalog.NewCzech()
	if err != nil {
		l.Fatal(err, "failed to build clinic catalog")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &l.ZL)
	if err != nil {
		l.Fatal(err, "failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, l)
	go processor.Start(ctx)

	sweeper := worker.NewRetentionSweeper(
		appointmentRepo, auditRepo, outboxRepo,
		cat, cfg.Retention.CleanupInterval, l,
	)
	go sweeper.Start(ctx)

	// Metrics and liveness HTTP surface.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		addr := fmt.Sprintf(":%d", cfg.Server.Port+1)
		if err := http.ListenAndServe(addr, mux); err != nil {
			l.Error(err, "metrics server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down worker")
	cancel()
}
