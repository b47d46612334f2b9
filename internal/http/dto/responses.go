package dto

import (
	"time"

	"github.com/clinic-voice/backend/internal/models"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// FailureResponse is the error envelope of webhook and dashboard endpoints.
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

// Functions

type PatientLookupResponse struct {
	PatientName string `json:"patient_name"`
	MedicalID   string `json:"medical_id"`
	Age         *int   `json:"age,omitempty"`
	LastVisit   string `json:"last_visit"`
	Notes       string `json:"notes"`
	Found       bool   `json:"found"`
}

type PatientLookupError struct {
	Error string `json:"error"`
	Found bool   `json:"found"`
}

type BookingResponse struct {
	BookingSuccess      bool         `json:"booking_success"`
	AppointmentID       string       `json:"appointment_id"`
	AppointmentDate     models.Value `json:"appointment_date"` // echoed as sent
	PatientName         string       `json:"patient_name"`
	DoctorName          string       `json:"doctor_name"`
	AppointmentReason   string       `json:"appointment_reason"`
	ConfirmationMessage string       `json:"confirmation_message"`
}

type BookingError struct {
	Error          string `json:"error"`
	BookingSuccess bool   `json:"booking_success"`
}

// Webhooks

type PreCallVariables struct {
	PatientName string `json:"patient_name"`
	Age         string `json:"age"`
}

type PreCallCall struct {
	DynamicVariables PreCallVariables `json:"dynamic_variables"`
}

type PreCallResponse struct {
	Call PreCallCall `json:"call"`
}

type PostCallData struct {
	LogID        string `json:"log_id"`
	SessionID    string `json:"session_id"`
	IsSuccessful bool   `json:"is_successful"`
	LoggedAt     string `json:"logged_at"`
}

type PostCallResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    PostCallData `json:"data"`
}

// Dashboard

type AppointmentsResponse struct {
	Success      bool                       `json:"success"`
	Count        int                        `json:"count"`
	Appointments []models.AppointmentDetail `json:"appointments"`
}

type CallLogsResponse struct {
	Success  bool             `json:"success"`
	CallLogs []models.CallLog `json:"callLogs"`
}

type InvocationLogsResponse struct {
	Success bool                   `json:"success"`
	Logs    []models.InvocationLog `json:"logs"`
}
