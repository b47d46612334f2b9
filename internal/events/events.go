package events

import (
	"context"
	"time"

	"github.com/clinic-voice/backend/internal/models"
)

// Channels
const (
	StreamInvocations = "events:invocation"
)

// Event types
const (
	EventInvocationLogged = "invocation_logged"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}

// InvocationLogged summarizes a stored audit record without its bodies.
func InvocationLogged(entry *models.InvocationLog) Event {
	payload := map[string]any{
		"id":          entry.ID.String(),
		"endpoint":    entry.Endpoint,
		"method":      entry.Method,
		"status_code": entry.StatusCode,
		"timestamp":   entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if entry.Category != nil {
		payload["category"] = *entry.Category
	}
	if entry.ErrorMessage != nil {
		payload["error_message"] = *entry.ErrorMessage
	}
	return Event{Type: EventInvocationLogged, Payload: payload}
}

// StatusCode reads the status code back from a decoded invocation event.
func (e Event) StatusCode() int {
	switch v := e.Payload["status_code"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
