package services

import (
	"context"
	"strings"
	"time"

	"github.com/clinic-voice/backend/internal/events"
	"github.com/clinic-voice/backend/internal/metrics"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvocationParams describes one handler invocation. Nil bodies are stored as
// empty maps; empty ErrorMessage and Category are stored as absent.
type InvocationParams struct {
	Endpoint     string
	Method       string
	RequestBody  *models.Value
	StatusCode   int
	ResponseBody *models.Value
	ErrorMessage string
	Category     string
}

// InvocationLogger writes audit records for webhook and function calls.
// LogInvocation is best-effort: failures are logged and counted, never returned.
type InvocationLogger struct {
	store     InvocationLogStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// NewInvocationLogger wires the audit store. publisher and m may be nil.
func NewInvocationLogger(store InvocationLogStore, publisher events.Publisher, m *metrics.Metrics, log *zap.Logger) *InvocationLogger {
	return &InvocationLogger{
		store:     store,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (l *InvocationLogger) LogInvocation(ctx context.Context, p InvocationParams) {
	entry := &models.InvocationLog{
		ID:           uuid.New(),
		Endpoint:     p.Endpoint,
		Method:       strings.ToUpper(p.Method),
		RequestBody:  bodyOrEmpty(p.RequestBody),
		StatusCode:   p.StatusCode,
		ResponseBody: bodyOrEmpty(p.ResponseBody),
		Timestamp:    l.now().UTC(),
	}
	if p.ErrorMessage != "" {
		msg := models.StripNUL(p.ErrorMessage)
		entry.ErrorMessage = &msg
	}
	if p.Category != "" {
		category := p.Category
		entry.Category = &category
	}

	l.metrics.ObserveInvocation(p.Category, p.StatusCode)

	if err := l.store.Create(ctx, entry); err != nil {
		l.metrics.IncInvocationLogFailure()
		l.log.Error("failed to log invocation",
			zap.String("endpoint", entry.Endpoint),
			zap.Int("status", entry.StatusCode),
			zap.Error(err),
		)
		return
	}

	if l.publisher == nil {
		return
	}
	if err := l.publisher.Publish(ctx, events.StreamInvocations, events.InvocationLogged(entry)); err != nil {
		l.log.Warn("failed to publish invocation event", zap.String("id", entry.ID.String()), zap.Error(err))
	}
}

// bodyOrEmpty also drops NUL characters, which the audit table cannot store.
func bodyOrEmpty(v *models.Value) models.Value {
	if v == nil {
		return models.EmptyMap()
	}
	return v.StripNUL()
}
