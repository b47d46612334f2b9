package repositories

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DoctorRepo struct {
	pool *pgxpool.Pool
}

func NewDoctorRepo(pool *pgxpool.Pool) *DoctorRepo {
	return &DoctorRepo{pool: pool}
}

func (r *DoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	var d models.Doctor
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at FROM doctors WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &d, nil
}

// GetByName returns the oldest doctor with the given name.
func (r *DoctorRepo) GetByName(ctx context.Context, name string) (*models.Doctor, error) {
	var d models.Doctor
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at FROM doctors
		WHERE name = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, name).Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &d, nil
}

func (r *DoctorRepo) Create(ctx context.Context, d *models.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, name, specialty) VALUES ($1, $2, $3)
		RETURNING created_at
	`, d.ID, d.Name, d.Specialty).Scan(&d.CreatedAt)
	return translateErr(err)
}
