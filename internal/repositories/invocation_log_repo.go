package repositories

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvocationLogRepo is append-only: there is no update or delete path.
type InvocationLogRepo struct {
	pool *pgxpool.Pool
}

func NewInvocationLogRepo(pool *pgxpool.Pool) *InvocationLogRepo {
	return &InvocationLogRepo{pool: pool}
}

func (r *InvocationLogRepo) Create(ctx context.Context, entry *models.InvocationLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invocation_logs (id, endpoint, method, request_body, status_code, response_body, error_message, category, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, entry.ID, entry.Endpoint, entry.Method, entry.RequestBody, entry.StatusCode,
		entry.ResponseBody, entry.ErrorMessage, entry.Category, entry.Timestamp)
	return translateErr(err)
}

// List returns every record, newest first.
func (r *InvocationLogRepo) List(ctx context.Context) ([]models.InvocationLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, endpoint, method, request_body, status_code, response_body, error_message, category, timestamp
		FROM invocation_logs
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.InvocationLog, 0)
	for rows.Next() {
		var l models.InvocationLog
		if err := rows.Scan(&l.ID, &l.Endpoint, &l.Method, &l.RequestBody, &l.StatusCode,
			&l.ResponseBody, &l.ErrorMessage, &l.Category, &l.Timestamp); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
