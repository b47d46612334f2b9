package models

import (
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	ID             uuid.UUID `json:"_id"`
	PatientID      uuid.UUID `json:"patient"`
	AssignedDoctor uuid.UUID `json:"assignedDoctor"`
	VisitDate      time.Time `json:"visitDate"`
	Notes          *string   `json:"notes,omitempty"`
}

// LastVisitLayout renders a visit date the way the voice agent reads it out.
const LastVisitLayout = "Mon Jan 02 2006"
