package repositories

import (
	"context"
	"time"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CallLogRepo struct {
	pool *pgxpool.Pool
}

func NewCallLogRepo(pool *pgxpool.Pool) *CallLogRepo {
	return &CallLogRepo{pool: pool}
}

// Create inserts a call log. A repeated session id surfaces as ErrConflict.
func (r *CallLogRepo) Create(ctx context.Context, cl *models.CallLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO call_logs (id, session_id, to_phone_number, from_phone_number, call_type,
		                       disconnection_reason, direction, created_at, ended_at,
		                       transcript, summary, is_successful, dynamic_variables)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, cl.ID, cl.SessionID, cl.ToPhoneNumber, cl.FromPhoneNumber, cl.CallType,
		cl.DisconnectionReason, cl.Direction, cl.CreatedAt, cl.EndedAt,
		cl.Transcript, cl.Summary, cl.IsSuccessful, cl.DynamicVariables)
	return translateErr(err)
}

// List returns every call log, most recent call first.
func (r *CallLogRepo) List(ctx context.Context) ([]models.CallLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, to_phone_number, from_phone_number, call_type,
		       disconnection_reason, direction, created_at, ended_at,
		       transcript, summary, is_successful, dynamic_variables
		FROM call_logs
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.CallLog, 0)
	for rows.Next() {
		var cl models.CallLog
		if err := rows.Scan(&cl.ID, &cl.SessionID, &cl.ToPhoneNumber, &cl.FromPhoneNumber, &cl.CallType,
			&cl.DisconnectionReason, &cl.Direction, &cl.CreatedAt, &cl.EndedAt,
			&cl.Transcript, &cl.Summary, &cl.IsSuccessful, &cl.DynamicVariables); err != nil {
			return nil, err
		}
		logs = append(logs, cl)
	}
	return logs, rows.Err()
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
