package services

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
)

// Store interfaces are satisfied by the pgx repositories and by the in-memory
// fakes in internal/testutil. Lookups return repositories.ErrNotFound on a miss.

type PatientStore interface {
	GetByMedicalID(ctx context.Context, medicalID string) (*models.Patient, error)
}

type DoctorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error)
	GetByName(ctx context.Context, name string) (*models.Doctor, error)
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	ListDetailed(ctx context.Context) ([]models.AppointmentDetail, error)
}

type MedicalRecordStore interface {
	LatestForPatient(ctx context.Context, patientID uuid.UUID) (*models.MedicalRecord, error)
}

type CallLogStore interface {
	Create(ctx context.Context, cl *models.CallLog) error
	List(ctx context.Context) ([]models.CallLog, error)
}

type InvocationLogStore interface {
	Create(ctx context.Context, entry *models.InvocationLog) error
}

type InvocationLogReader interface {
	List(ctx context.Context) ([]models.InvocationLog, error)
}

// Seeding needs write access the request path never uses.

type PatientWriter interface {
	Upsert(ctx context.Context, p *models.Patient) error
}

type DoctorWriter interface {
	DoctorStore
	Create(ctx context.Context, d *models.Doctor) error
}

type MedicalRecordWriter interface {
	MedicalRecordStore
	Create(ctx context.Context, m *models.MedicalRecord) error
}
