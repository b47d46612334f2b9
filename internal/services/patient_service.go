package services

import (
	"context"
	"errors"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/repositories"
	"go.uber.org/zap"
)

type PatientService struct {
	patients PatientStore
	records  MedicalRecordStore
	log      *zap.Logger
}

func NewPatientService(patients PatientStore, records MedicalRecordStore, log *zap.Logger) *PatientService {
	return &PatientService{patients: patients, records: records, log: log}
}

// PatientSummary is a patient with their most recent medical record, if any.
type PatientSummary struct {
	Patient      *models.Patient
	LatestRecord *models.MedicalRecord
}

// Lookup finds a patient by medical id, ignoring case.
func (s *PatientService) Lookup(ctx context.Context, medicalID string) (*PatientSummary, error) {
	if medicalID == "" {
		return nil, &ValidationError{Message: "Medical ID is required"}
	}

	patient, err := s.patients.GetByMedicalID(ctx, models.NormalizeMedicalID(medicalID))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	record, err := s.records.LatestForPatient(ctx, patient.ID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	return &PatientSummary{Patient: patient, LatestRecord: record}, nil
}
