package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/clinic-voice/backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingLogger captures every LogInvocation call.
type recordingLogger struct {
	mu    sync.Mutex
	calls []services.InvocationParams
}

func (r *recordingLogger) LogInvocation(_ context.Context, p services.InvocationParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, p)
}

func (r *recordingLogger) Calls() []services.InvocationParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]services.InvocationParams(nil), r.calls...)
}

type fixture struct {
	app          *fiber.App
	cfg          *config.Config
	recorder     *recordingLogger
	patients     *testutil.Patients
	doctors      *testutil.Doctors
	appointments *testutil.Appointments
	records      *testutil.MedicalRecords
	callLogs     *testutil.CallLogs
	invocations  *testutil.InvocationLogs
	webhooks     *WebhookHandler
	patient      *models.Patient
	doctor       *models.Doctor
}

// withInvocations makes the dashboard read audit records from store.
func withInvocations(store *testutil.InvocationLogs) func(*fixture) {
	return func(f *fixture) { f.invocations = store }
}

// newFixture wires handlers over in-memory stores. A nil logger uses the
// recording stub.
func newFixture(t *testing.T, logger InvocationLogger, opts ...func(*fixture)) *fixture {
	t.Helper()

	age := 34
	notes := "Allergic to penicillin"
	f := &fixture{
		cfg: &config.Config{
			DefaultDoctorName:  "Dr. Sarah Johnson",
			PreCallPatientName: "Vishal Pokuri",
			PreCallPatientAge:  "21",
			JWTSecret:          "secret",
			DashboardUsername:  "admin",
		},
		recorder:    &recordingLogger{},
		patient:     &models.Patient{ID: uuid.New(), MedicalID: "ABC123", Name: "Jane Doe", Age: &age},
		doctor:      &models.Doctor{ID: uuid.New(), Name: "Dr. Sarah Johnson"},
		callLogs:    testutil.NewCallLogs(),
		invocations: testutil.NewInvocationLogs(),
	}
	p1 := &models.Patient{ID: uuid.New(), MedicalID: "P1", Name: "John Smith"}
	f.patients = testutil.NewPatients(f.patient, p1)
	f.doctors = testutil.NewDoctors(f.doctor)
	f.appointments = testutil.NewAppointments(f.patients, f.doctors)
	f.records = testutil.NewMedicalRecords(&models.MedicalRecord{
		ID:        uuid.New(),
		PatientID: f.patient.ID,
		VisitDate: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		Notes:     &notes,
	})

	for _, opt := range opts {
		opt(f)
	}
	if logger == nil {
		logger = f.recorder
	}

	log := zap.NewNop()
	patientSvc := services.NewPatientService(f.patients, f.records, log)
	bookingSvc := services.NewBookingService(f.patients, f.doctors, f.appointments, f.cfg.DefaultDoctorName, log)
	callLogSvc := services.NewCallLogService(f.callLogs, log)
	dashboardSvc := services.NewDashboardService(f.appointments, f.callLogs, f.invocations)

	functions := NewFunctionHandler(patientSvc, bookingSvc, logger, log)
	f.webhooks = NewWebhookHandler(callLogSvc, logger, f.cfg, log)
	dashboard := NewDashboardHandler(dashboardSvc, log)

	f.app = fiber.New()
	f.app.Post(PathPreCall, f.webhooks.PreCall)
	f.app.Post(PathPostCall, f.webhooks.PostCall)
	f.app.Post(PathPatientLookup, functions.PatientLookup)
	f.app.Post(PathAppointmentBooking, functions.AppointmentBooking)
	f.app.Get("/api/dashboard/appointments", dashboard.Appointments)
	f.app.Get("/api/dashboard/call-logs", dashboard.CallLogs)
	f.app.Get("/api/dashboard/logs", dashboard.Logs)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func (f *fixture) post(t *testing.T, path, body string) (int, map[string]any) {
	return f.do(t, http.MethodPost, path, body)
}
