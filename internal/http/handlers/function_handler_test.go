package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/clinic-voice/backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPatientLookup_Found(t *testing.T) {
	for _, id := range []string{"abc123", "ABC123"} {
		t.Run(id, func(t *testing.T) {
			f := newFixture(t, nil)

			status, body := f.post(t, PathPatientLookup, `{"medical_id":"`+id+`"}`)

			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, true, body["found"])
			assert.Equal(t, "Jane Doe", body["patient_name"])
			assert.Equal(t, "ABC123", body["medical_id"])
			assert.Equal(t, float64(34), body["age"])
			assert.Equal(t, "Fri Mar 15 2024", body["last_visit"])
			assert.Equal(t, "Allergic to penicillin", body["notes"])

			calls := f.recorder.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, PathPatientLookup, calls[0].Endpoint)
			assert.Equal(t, "POST", calls[0].Method)
			assert.Equal(t, fiber.StatusOK, calls[0].StatusCode)
			assert.Equal(t, models.CategoryPatientLookup, calls[0].Category)
			assert.Empty(t, calls[0].ErrorMessage)
			require.NotNil(t, calls[0].RequestBody)
			got, _ := calls[0].RequestBody.Lookup("medical_id").AsString()
			assert.Equal(t, id, got)
		})
	}
}

func TestPatientLookup_Fallbacks(t *testing.T) {
	f := newFixture(t, nil)

	_, body := f.post(t, PathPatientLookup, `{"medical_id":"p1"}`)

	assert.Equal(t, true, body["found"])
	assert.Equal(t, "No previous visits", body["last_visit"])
	assert.Equal(t, "No known allergies", body["notes"])
	assert.NotContains(t, body, "age")
}

func TestPatientLookup_FailuresReturn200(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantLogged int
		wantError  string
		wantReason string
	}{
		{"missing id", `{}`, fiber.StatusBadRequest, "Medical ID is required", "Medical ID is required"},
		{"malformed body", `{not json`, fiber.StatusBadRequest, "Medical ID is required", "Medical ID is required"},
		{"unknown id", `{"medical_id":"zzz"}`, fiber.StatusNotFound, "Patient not found with this Medical ID", "Patient not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)

			status, body := f.post(t, PathPatientLookup, tc.body)

			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, false, body["found"])
			assert.Equal(t, tc.wantError, body["error"])

			calls := f.recorder.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, tc.wantLogged, calls[0].StatusCode)
			assert.Equal(t, tc.wantReason, calls[0].ErrorMessage)
		})
	}
}

func TestPatientLookup_StoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.patients.Fail = true

	status, body := f.post(t, PathPatientLookup, `{"medical_id":"abc123"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to lookup patient", body["error"])

	calls := f.recorder.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, fiber.StatusInternalServerError, calls[0].StatusCode)
	assert.Equal(t, testutil.ErrStoreDown.Error(), calls[0].ErrorMessage)
	assert.Nil(t, calls[0].RequestBody, "500 records carry no request body")
}

func TestAppointmentBooking_EndToEnd(t *testing.T) {
	f := newFixture(t, nil)

	status, body := f.post(t, PathAppointmentBooking, `{"patient_id":"P1","start_date":"2024-01-01T10:00:00Z"}`)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["booking_success"])
	assert.Equal(t, "2024-01-01T10:00:00Z", body["appointment_date"])
	assert.Equal(t, "John Smith", body["patient_name"])
	assert.Equal(t, "Dr. Sarah Johnson", body["doctor_name"])
	assert.Equal(t, "General consultation", body["appointment_reason"])
	assert.Equal(t, "Appointment scheduled for John Smith with Dr. Sarah Johnson", body["confirmation_message"])

	stored := f.appointments.All()
	require.Len(t, stored, 1)
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.True(t, stored[0].StartTime.Equal(start))
	assert.True(t, stored[0].EndTime.Equal(start.Add(60*time.Minute)))
	assert.Equal(t, stored[0].ID.String(), body["appointment_id"])

	calls := f.recorder.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, fiber.StatusOK, calls[0].StatusCode)
	assert.Equal(t, models.CategoryAppointmentBooking, calls[0].Category)
}

func TestAppointmentBooking_ExplicitDoctor(t *testing.T) {
	f := newFixture(t, nil)

	status, body := f.post(t, PathAppointmentBooking,
		`{"patient_id":"P1","doctor_id":"`+f.doctor.ID.String()+`","start_date":"2024-02-01T09:00:00Z","reason":"Follow-up"}`)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Dr. Sarah Johnson", body["doctor_name"])
	assert.Equal(t, "Follow-up", body["appointment_reason"])
}

func TestAppointmentBooking_MissingFields(t *testing.T) {
	for _, payload := range []string{
		`{"start_date":"2024-01-01T10:00:00Z"}`,
		`{"patient_id":"P1"}`,
		`{"patient_id":"","start_date":"2024-01-01T10:00:00Z"}`,
		``,
	} {
		t.Run(payload, func(t *testing.T) {
			f := newFixture(t, nil)

			status, body := f.post(t, PathAppointmentBooking, payload)

			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, false, body["booking_success"])
			assert.Equal(t, "Patient ID and appointment date are required", body["error"])
			assert.Empty(t, f.appointments.All())

			calls := f.recorder.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, fiber.StatusBadRequest, calls[0].StatusCode)
			assert.Equal(t, "Missing required fields", calls[0].ErrorMessage)
		})
	}
}

func TestAppointmentBooking_NotFound(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"patient", `{"patient_id":"P404","start_date":"2024-01-01T10:00:00Z"}`, "Patient not found"},
		{"doctor", `{"patient_id":"P1","doctor_id":"6f1c2d3e-0000-4000-8000-000000000000","start_date":"2024-01-01T10:00:00Z"}`, "Doctor not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)

			status, body := f.post(t, PathAppointmentBooking, tc.payload)

			assert.Equal(t, fiber.StatusNotFound, status)
			assert.Equal(t, false, body["booking_success"])
			assert.Equal(t, tc.want, body["error"])
			assert.Empty(t, f.appointments.All())

			calls := f.recorder.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, fiber.StatusNotFound, calls[0].StatusCode)
			assert.Equal(t, tc.want, calls[0].ErrorMessage)
		})
	}
}

func TestAppointmentBooking_InternalErrors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		f := newFixture(t, nil)

		status, body := f.post(t, PathAppointmentBooking, `{"patient_id":"P1","start_date":"someday"}`)

		assert.Equal(t, fiber.StatusInternalServerError, status)
		assert.Equal(t, "Failed to create appointment", body["error"])
		assert.Equal(t, false, body["booking_success"])
		require.Len(t, f.recorder.Calls(), 1)
		assert.Contains(t, f.recorder.Calls()[0].ErrorMessage, "start_date")
	})

	t.Run("store down", func(t *testing.T) {
		f := newFixture(t, nil)
		f.appointments.Fail = true

		status, _ := f.post(t, PathAppointmentBooking, `{"patient_id":"P1","start_date":"2024-01-01T10:00:00Z"}`)

		assert.Equal(t, fiber.StatusInternalServerError, status)
		require.Len(t, f.recorder.Calls(), 1)
		assert.Equal(t, fiber.StatusInternalServerError, f.recorder.Calls()[0].StatusCode)
	})
}

func TestFunctions_SurviveFailingAuditStore(t *testing.T) {
	store := testutil.NewInvocationLogs()
	store.Fail = true
	logger := services.NewInvocationLogger(store, nil, nil, zap.NewNop())
	f := newFixture(t, logger)

	status, body := f.post(t, PathAppointmentBooking, `{"patient_id":"P1","start_date":"2024-01-01T10:00:00Z"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["booking_success"])
	assert.Len(t, f.appointments.All(), 1)
	assert.Empty(t, store.Entries())
}

func TestAppointmentBooking_DeeplyNestedBody(t *testing.T) {
	f := newFixture(t, nil)
	body := `{"patient_id":"P1","start_date":"2024-01-01T10:00:00Z","x":` + strings.Repeat("[", 20000) + `}`

	status, resp := f.post(t, PathAppointmentBooking, body)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, resp["booking_success"])
	assert.Empty(t, f.appointments.All())

	calls := f.recorder.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, fiber.StatusBadRequest, calls[0].StatusCode)
	assert.Equal(t, "Missing required fields", calls[0].ErrorMessage)
	require.NotNil(t, calls[0].RequestBody)
	assert.Equal(t, 0, calls[0].RequestBody.Len())
}
