package models

import (
	"time"

	"github.com/google/uuid"
)

// Invocation categories, one per webhook/function endpoint.
const (
	CategoryPreCall            = "pre-call"
	CategoryPostCall           = "post-call"
	CategoryPatientLookup      = "patient-lookup"
	CategoryAppointmentBooking = "appointment-booking"
)

// InvocationLog is the audit record of one handler invocation. Records are
// append-only: nothing updates or deletes them.
type InvocationLog struct {
	ID           uuid.UUID `json:"_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestBody  Value     `json:"requestBody"`
	StatusCode   int       `json:"statusCode"`
	ResponseBody Value     `json:"responseBody"`
	ErrorMessage *string   `json:"errorMessage,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
