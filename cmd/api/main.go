package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doktor-na-dohled/booking-api/internal/catalog"
	"github.com/doktor-na-dohled/booking-api/internal/config"
	appointmentHandler "github.com/doktor-na-dohled/booking-api/internal/handler/appointment"
	doctorHandler "github.com/doktor-na-dohled/booking-api/internal/handler/doctor"
	gdprHandler "github.com/doktor-na-dohled/booking-api/internal/handler/gdpr"
	healthHandler "github.com/doktor-na-dohled/booking-api/internal/handler/health"
	"github.com/doktor-na-dohled/booking-api/internal/middleware"
	"github.com/doktor-na-dohled/booking-api/internal/repository/postgres"
	"github.com/doktor-na-dohled/booking-api/internal/router"
	auditService "github.com/doktor-na-dohled/booking-api/internal/service/audit"
	availabilityService "github.com/doktor-na-dohled/booking-api/internal/service/availability"
	bookingService "github.com/doktor-na-dohled/booking-api/internal/service/booking"
	doctorService "github.com/doktor-na-dohled/booking-api/internal/service/doctor"
	gdprService "github.com/doktor-na-dohled/booking-api/internal/service/gdpr"
	notificationService "github.com/doktor-na-dohled/booking-api/internal/service/notification"
	telemedicineService "github.com/doktor-na-dohled/booking-api/internal/service/telemedicine"
	"github.com/doktor-na-dohled/booking-api/internal/email"
	"github.com/doktor-na-dohled/booking-api/pkg/logger"
	redisBroker "github.com/doktor-na-dohled/booking-api/pkg/messaging/redis"
	"github.com/doktor-na-dohled/booking-api/pkg/redislock"
	"github.com/doktor-na-dohled/booking-api/pkg/security"
)

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

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	consentRepo := postgres.NewConsentRepository(db)

	// Services
	locker := redislock.NewScheduleLocker(broker.Client(), cfg.Redis.LockTTL)
	availabilitySvc := availabilityService.NewService(availabilityRepo, l)
	pseudonymizer := security.NewPseudonymizer(cfg.Security.PseudonymSecret, cfg.Security.PseudonymSalt)
	auditSvc := auditService.NewService(auditRepo, pseudonymizer)
	emailSvc := email.NewSMTPService(cfg.SMTP)
	notifier := notificationService.NewService(emailSvc, l)
	telemedSvc := telemedicineService.NewService(cfg.Telemedicine.BaseURL)
	doctorSvc := doctorService.NewService(doctorRepo, cat, l)
	gdprSvc := gdprService.NewService(consentRepo, appointmentRepo, patientRepo, auditSvc, cat, l)

	bookingSvc := bookingService.NewService(
		appointmentRepo,
		doctorRepo,
		patientRepo,
		outboxRepo,
		availabilitySvc,
		bookingService.NewValidator(cat, cfg.Booking.MinReasonLength),
		bookingService.NewInsuranceChecker(cat),
		auditSvc,
		notifier,
		telemedSvc,
		locker,
		cat,
		cfg.Booking,
		l,
	)

	// HTTP surface
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	r := router.NewRouter(
		authMiddleware,
		appointmentHandler.NewHandler(bookingSvc),
		doctorHandler.NewHandler(doctorSvc),
		gdprHandler.NewHandler(gdprSvc),
		healthHandler.NewHandler(db, cfg.Health),
		l,
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst: cfg.RateLimit.Burst,
			CORSConfig:     middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Fatal(err, "server forced to shutdown")
	}

	l.Info("server exited properly")
}
