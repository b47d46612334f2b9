package repositories

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepo(pool *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{pool: pool}
}

// Create stores an appointment built by models.NewAppointment.
func (r *AppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, start_time, end_time, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.PatientID, a.DoctorID, a.StartTime, a.EndTime, a.Reason)
	return translateErr(err)
}

// ListDetailed returns every appointment with its patient and doctor, latest start first.
func (r *AppointmentRepo) ListDetailed(ctx context.Context) ([]models.AppointmentDetail, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.patient_id, a.doctor_id, a.start_time, a.end_time, a.reason,
		       p.name, p.medical_id,
		       d.id, d.name, d.specialty, d.created_at
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		ORDER BY a.start_time DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]models.AppointmentDetail, 0)
	for rows.Next() {
		var a models.AppointmentDetail
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.StartTime, &a.EndTime, &a.Reason,
			&a.Patient.Name, &a.Patient.MedicalID,
			&a.Doctor.ID, &a.Doctor.Name, &a.Doctor.Specialty, &a.Doctor.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
