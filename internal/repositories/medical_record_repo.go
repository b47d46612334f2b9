package repositories

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MedicalRecordRepo struct {
	pool *pgxpool.Pool
}

func NewMedicalRecordRepo(pool *pgxpool.Pool) *MedicalRecordRepo {
	return &MedicalRecordRepo{pool: pool}
}

// LatestForPatient returns the record with the most recent visit date.
func (r *MedicalRecordRepo) LatestForPatient(ctx context.Context, patientID uuid.UUID) (*models.MedicalRecord, error) {
	var m models.MedicalRecord
	err := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, visit_date, notes
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY visit_date DESC
		LIMIT 1
	`, patientID).Scan(&m.ID, &m.PatientID, &m.AssignedDoctor, &m.VisitDate, &m.Notes)
	if err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

func (r *MedicalRecordRepo) Create(ctx context.Context, m *models.MedicalRecord) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, visit_date, notes)
		VALUES ($1, $2, $3, COALESCE($4, now()), $5)
		RETURNING visit_date
	`, m.ID, m.PatientID, m.AssignedDoctor, nullTime(m.VisitDate), m.Notes).Scan(&m.VisitDate)
	return translateErr(err)
}
