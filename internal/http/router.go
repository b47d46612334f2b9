package http

import (
	"time"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/http/handlers"
	"github.com/clinic-voice/backend/internal/metrics"
	"github.com/clinic-voice/backend/internal/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Webhooks  *handlers.WebhookHandler
	Functions *handlers.FunctionHandler
	Dashboard *handlers.DashboardHandler
	LogStream *handlers.LogStream
}

// SetupRouter mounts every route. rdb may be nil, which disables rate limiting.
func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	m *metrics.Metrics,
	h Handlers,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, " +
			middleware.HeaderWebhookTimestamp + ", " + middleware.HeaderWebhookSignature,
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	api := app.Group("/api")

	api.Post("/auth/login", h.Auth.Login)

	// Voice platform callbacks
	platformGuards := []fiber.Handler{
		middleware.RateLimitMiddleware(rdb, cfg.WebhookRateLimit, time.Minute),
		middleware.WebhookSignatureMiddleware(cfg.WebhookSecret, cfg.WebhookSignatureMaxAge, log),
	}
	webhooks := api.Group("/webhooks", platformGuards...)
	webhooks.Post("/pre-call", h.Webhooks.PreCall)
	webhooks.Post("/post-call", h.Webhooks.PostCall)

	functions := api.Group("/functions", platformGuards...)
	functions.Post("/patient-lookup", h.Functions.PatientLookup)
	functions.Post("/appointment-booking", h.Functions.AppointmentBooking)

	// Dashboard
	dashboard := api.Group("/dashboard")
	if cfg.DashboardAuthEnabled() {
		dashboard.Use(middleware.AuthMiddleware(cfg, log))
	}
	dashboard.Get("/appointments", h.Dashboard.Appointments)
	dashboard.Get("/call-logs", h.Dashboard.CallLogs)
	dashboard.Get("/logs", h.Dashboard.Logs)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws/logs", websocket.New(h.LogStream.HandleWS))
}
