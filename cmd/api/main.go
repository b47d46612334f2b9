package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/db"
	"github.com/clinic-voice/backend/internal/events"
	apphttp "github.com/clinic-voice/backend/internal/http"
	"github.com/clinic-voice/backend/internal/http/dto"
	"github.com/clinic-voice/backend/internal/http/handlers"
	"github.com/clinic-voice/backend/internal/metrics"
	"github.com/clinic-voice/backend/internal/middleware"
	"github.com/clinic-voice/backend/internal/repositories"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, os.DirFS(cfg.MigrationsDir), log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Repositories
	patientRepo := repositories.NewPatientRepo(pool)
	doctorRepo := repositories.NewDoctorRepo(pool)
	appointmentRepo := repositories.NewAppointmentRepo(pool)
	recordRepo := repositories.NewMedicalRecordRepo(pool)
	callLogRepo := repositories.NewCallLogRepo(pool)
	invocationRepo := repositories.NewInvocationLogRepo(pool)

	// Events
	var (
		publisher  events.Publisher
		subscriber events.Subscriber
	)
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	}

	m := metrics.New()

	// Services
	invocationLogger := services.NewInvocationLogger(invocationRepo, publisher, m, log)
	patientService := services.NewPatientService(patientRepo, recordRepo, log)
	bookingService := services.NewBookingService(patientRepo, doctorRepo, appointmentRepo, cfg.DefaultDoctorName, log)
	callLogService := services.NewCallLogService(callLogRepo, log)
	dashboardService := services.NewDashboardService(appointmentRepo, callLogRepo, invocationRepo)

	// Handlers
	logStream := handlers.NewLogStream(cfg, subscriber, log)
	if subscriber != nil {
		if err := logStream.Start(ctx); err != nil {
			log.Error("failed to start log stream", zap.Error(err))
		}
	}

	h := apphttp.Handlers{
		Auth:      handlers.NewAuthHandler(cfg, log),
		Webhooks:  handlers.NewWebhookHandler(callLogService, invocationLogger, cfg, log),
		Functions: handlers.NewFunctionHandler(patientService, bookingService, invocationLogger, log),
		Dashboard: handlers.NewDashboardHandler(dashboardService, log),
		LogStream: logStream,
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{
				Error:     err.Error(),
				RequestID: middleware.GetRequestID(c),
			})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, m, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
