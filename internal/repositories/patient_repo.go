package repositories

import (
	"context"
	"strings"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PatientRepo struct {
	pool *pgxpool.Pool
}

func NewPatientRepo(pool *pgxpool.Pool) *PatientRepo {
	return &PatientRepo{pool: pool}
}

const patientColumns = `id, medical_id, name, age, contact_phone, contact_email, created_at`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(&p.ID, &p.MedicalID, &p.Name, &p.Age, &p.Contact.Phone, &p.Contact.Email, &p.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

// GetByMedicalID matches the stored identifier exactly; callers normalize case.
// An identifier containing NUL cannot be stored, so it never matches.
func (r *PatientRepo) GetByMedicalID(ctx context.Context, medicalID string) (*models.Patient, error) {
	if strings.ContainsRune(medicalID, 0) {
		return nil, ErrNotFound
	}
	return scanPatient(r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE medical_id = $1
	`, medicalID))
}

func (r *PatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+` FROM patients WHERE id = $1
	`, id))
}

// Upsert inserts a patient or refreshes the one with the same medical id.
func (r *PatientRepo) Upsert(ctx context.Context, p *models.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.MedicalID = models.NormalizeMedicalID(p.MedicalID)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, medical_id, name, age, contact_phone, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (medical_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = COALESCE(EXCLUDED.age, patients.age),
			contact_phone = COALESCE(EXCLUDED.contact_phone, patients.contact_phone),
			contact_email = COALESCE(EXCLUDED.contact_email, patients.contact_email)
		RETURNING id, created_at
	`, p.ID, p.MedicalID, p.Name, p.Age, p.Contact.Phone, p.Contact.Email).Scan(&p.ID, &p.CreatedAt)
	return translateErr(err)
}
