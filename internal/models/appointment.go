package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAppointmentDuration = 60 * time.Minute
	DefaultAppointmentReason   = "General consultation"
)

type Appointment struct {
	ID        uuid.UUID `json:"_id"`
	PatientID uuid.UUID `json:"-"`
	DoctorID  uuid.UUID `json:"-"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Reason    *string   `json:"reason,omitempty"`
}

type AppointmentParams struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	StartTime time.Time
	EndTime   time.Time // zero means StartTime + DefaultAppointmentDuration
	Reason    string    // empty means no reason recorded
}

// NewAppointment builds an appointment ready to be stored. The end time is
// derived here rather than by the store.
func NewAppointment(p AppointmentParams) (*Appointment, error) {
	if p.PatientID == uuid.Nil {
		return nil, errors.New("appointment patient is required")
	}
	if p.DoctorID == uuid.Nil {
		return nil, errors.New("appointment doctor is required")
	}
	if p.StartTime.IsZero() {
		return nil, errors.New("appointment start time is required")
	}

	end := p.EndTime
	if end.IsZero() {
		end = p.StartTime.Add(DefaultAppointmentDuration)
	}
	if !end.After(p.StartTime) {
		return nil, errors.New("appointment must end after it starts")
	}

	a := &Appointment{
		ID:        uuid.New(),
		PatientID: p.PatientID,
		DoctorID:  p.DoctorID,
		StartTime: p.StartTime,
		EndTime:   end,
	}
	if p.Reason != "" {
		reason := StripNUL(p.Reason)
		a.Reason = &reason
	}
	return a, nil
}

// AppointmentDetail is an appointment with its participants resolved, as the
// dashboard lists it.
type AppointmentDetail struct {
	Appointment
	Patient PatientRef `json:"patient"`
	Doctor  Doctor     `json:"doctor"`
}
