package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/clinic-voice/backend/internal/auth"
	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/http/handlers"
	"github.com/clinic-voice/backend/internal/metrics"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/clinic-voice/backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, *testutil.InvocationLogs) {
	t.Helper()
	log := zap.NewNop()
	m := metrics.New()

	patients := testutil.NewPatients(&models.Patient{ID: uuid.New(), MedicalID: "ABC123", Name: "Jane Doe"})
	doctors := testutil.NewDoctors(&models.Doctor{Name: cfg.DefaultDoctorName})
	appointments := testutil.NewAppointments(patients, doctors)
	callLogs := testutil.NewCallLogs()
	audit := testutil.NewInvocationLogs()

	invocations := services.NewInvocationLogger(audit, nil, m, log)
	h := Handlers{
		Auth: handlers.NewAuthHandler(cfg, log),
		Webhooks: handlers.NewWebhookHandler(
			services.NewCallLogService(callLogs, log), invocations, cfg, log),
		Functions: handlers.NewFunctionHandler(
			services.NewPatientService(patients, testutil.NewMedicalRecords(), log),
			services.NewBookingService(patients, doctors, appointments, cfg.DefaultDoctorName, log),
			invocations, log),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(appointments, callLogs, audit), log),
		LogStream: handlers.NewLogStream(cfg, testutil.NewSubscriber(), log),
	}

	app := fiber.New()
	SetupRouter(app, cfg, log, nil, m, h)
	return app, audit
}

func baseConfig() *config.Config {
	return &config.Config{
		DefaultDoctorName:  "Dr. Sarah Johnson",
		PreCallPatientName: "Vishal Pokuri",
		PreCallPatientAge:  "21",
		JWTSecret:          "secret",
		DashboardUsername:  "admin",
		CORSAllowOrigins:   "*",
	}
}

func TestRouterAuditsPlatformRoutes(t *testing.T) {
	app, audit := newTestApp(t, baseConfig())

	for _, path := range []string{
		"/api/webhooks/pre-call",
		"/api/functions/patient-lookup",
		"/api/functions/appointment-booking",
		"/api/webhooks/post-call",
	} {
		resp, err := app.Test(httptest.NewRequest("POST", path, strings.NewReader(`{}`)))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	entries := audit.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "/api/webhooks/pre-call", entries[0].Endpoint)
	assert.Equal(t, "/api/webhooks/post-call", entries[3].Endpoint)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/dashboard/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, audit.Entries(), 4)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	app, _ := newTestApp(t, baseConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	_, err = app.Test(httptest.NewRequest("POST", "/api/webhooks/pre-call", strings.NewReader(`{}`)))
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `clinic_invocations_total{category="pre-call",status="200"} 1`)
}

func TestRouterDashboardAuth(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	cfg := baseConfig()
	cfg.DashboardPasswordHash = hash
	app, _ := newTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/dashboard/appointments", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := auth.GenerateJWT("secret", "admin", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/dashboard/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/api/webhooks/pre-call", strings.NewReader(`{}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "platform routes never need a dashboard token")
}

func TestRouterWebhookSignature(t *testing.T) {
	cfg := baseConfig()
	cfg.WebhookSecret = "k"
	app, audit := newTestApp(t, cfg)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/webhooks/pre-call", strings.NewReader(`{}`)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, audit.Entries(), "rejected before the handler runs")

	resp, err = app.Test(httptest.NewRequest("GET", "/api/dashboard/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
