package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/repositories"
	"go.uber.org/zap"
)

// SeedPatient is a demo patient plus an optional first visit.
type SeedPatient struct {
	MedicalID string
	Name      string
	Age       int
	Phone     string
	VisitDate time.Time // zero skips the medical record
	Notes     string
}

// DemoPatients is the data set cmd/seed loads by default.
var DemoPatients = []SeedPatient{
	{MedicalID: "ABC123", Name: "Vishal Pokuri", Age: 21, Phone: "+15550100001",
		VisitDate: time.Date(2024, 11, 4, 15, 30, 0, 0, time.UTC), Notes: "Allergic to penicillin"},
	{MedicalID: "P1", Name: "John Smith", Age: 45, Phone: "+15550100002",
		VisitDate: time.Date(2025, 2, 12, 9, 0, 0, 0, time.UTC), Notes: "Hypertension, on lisinopril"},
	{MedicalID: "MED-2002", Name: "Maria Garcia", Age: 32, Phone: "+15550100003"},
}

type Seeder struct {
	patients PatientWriter
	doctors  DoctorWriter
	records  MedicalRecordWriter
	log      *zap.Logger
}

func NewSeeder(patients PatientWriter, doctors DoctorWriter, records MedicalRecordWriter, log *zap.Logger) *Seeder {
	return &Seeder{patients: patients, doctors: doctors, records: records, log: log}
}

// EnsureDoctor returns the doctor called name, creating it if missing.
func (s *Seeder) EnsureDoctor(ctx context.Context, name, specialty string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByName(ctx, name)
	if err == nil {
		return doctor, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	doctor = &models.Doctor{Name: name}
	if specialty != "" {
		doctor.Specialty = &specialty
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("create doctor %q: %w", name, err)
	}
	s.log.Info("doctor created", zap.String("name", name))
	return doctor, nil
}

// SeedPatients upserts patients and gives each a first visit with doctor
// when it has no medical record yet. Running it twice changes nothing.
func (s *Seeder) SeedPatients(ctx context.Context, doctor *models.Doctor, seeds []SeedPatient) error {
	for _, sp := range seeds {
		age := sp.Age
		p := &models.Patient{MedicalID: sp.MedicalID, Name: sp.Name, Age: &age}
		if sp.Phone != "" {
			phone := sp.Phone
			p.Contact.Phone = &phone
		}
		if err := s.patients.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert patient %s: %w", sp.MedicalID, err)
		}

		if sp.VisitDate.IsZero() {
			continue
		}
		_, err := s.records.LatestForPatient(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}

		rec := &models.MedicalRecord{PatientID: p.ID, AssignedDoctor: doctor.ID, VisitDate: sp.VisitDate}
		if sp.Notes != "" {
			notes := sp.Notes
			rec.Notes = &notes
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return fmt.Errorf("create record for %s: %w", sp.MedicalID, err)
		}
	}
	s.log.Info("patients seeded", zap.Int("count", len(seeds)))
	return nil
}
