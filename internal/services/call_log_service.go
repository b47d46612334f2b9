package services

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
	"go.uber.org/zap"
)

type CallLogService struct {
	store CallLogStore
	log   *zap.Logger
}

func NewCallLogService(store CallLogStore, log *zap.Logger) *CallLogService {
	return &CallLogService{store: store, log: log}
}

// Ingest stores a post-call payload. There is no idempotency check: a
// repeated session id fails with repositories.ErrConflict.
func (s *CallLogService) Ingest(ctx context.Context, payload models.Value) (*models.CallLog, error) {
	cl, err := models.CallLogFromPayload(payload)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, cl); err != nil {
		return nil, err
	}
	s.log.Info("call log saved", zap.String("session_id", cl.SessionID), zap.Bool("is_successful", cl.IsSuccessful))
	return cl, nil
}
