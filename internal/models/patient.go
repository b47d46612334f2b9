package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

type Patient struct {
	ID        uuid.UUID `json:"_id"`
	MedicalID string    `json:"medicalId"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	Contact   Contact   `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeMedicalID is the canonical stored form of a medical identifier.
// Surrounding whitespace is significant.
func NormalizeMedicalID(id string) string {
	return strings.ToUpper(id)
}

// PatientRef is the slice of a patient embedded in appointment listings.
type PatientRef struct {
	Name      string `json:"name"`
	MedicalID string `json:"medicalId"`
}
