package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/clinic-voice/backend/internal/events"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type alertSink struct {
	mu     sync.Mutex
	alerts []Alert
	status int
}

func (s *alertSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var a Alert
	_ = json.NewDecoder(r.Body).Decode(&a)
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	status := s.status
	s.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func invocationEvent(status int, msg string) events.Event {
	category := models.CategoryAppointmentBooking
	entry := &models.InvocationLog{
		ID:         uuid.New(),
		Endpoint:   "/api/functions/appointment-booking",
		Method:     "POST",
		StatusCode: status,
		Category:   &category,
	}
	if msg != "" {
		entry.ErrorMessage = &msg
	}
	// Round-trip through JSON the way the redis subscriber delivers it.
	data, _ := json.Marshal(events.InvocationLogged(entry))
	var ev events.Event
	_ = json.Unmarshal(data, &ev)
	return ev
}

func TestAlertForwarder(t *testing.T) {
	sink := &alertSink{}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	fwd := NewAlertForwarder(NewAlertClient(srv.URL), 500, zap.NewNop())
	ctx := context.Background()

	assert.False(t, fwd.Forward(ctx, invocationEvent(200, "")))
	assert.False(t, fwd.Forward(ctx, invocationEvent(404, "Patient not found")))
	assert.False(t, fwd.Forward(ctx, events.Event{Type: "other", Payload: map[string]any{"status_code": 500}}))
	assert.True(t, fwd.Forward(ctx, invocationEvent(500, "store unavailable")))

	require.Len(t, sink.alerts, 1)
	got := sink.alerts[0]
	assert.Equal(t, 500, got.StatusCode)
	assert.Equal(t, "/api/functions/appointment-booking", got.Endpoint)
	assert.Equal(t, models.CategoryAppointmentBooking, got.Category)
	assert.Equal(t, "/api/functions/appointment-booking returned 500: store unavailable", got.Text)
}

func TestAlertClientRejectsNon2xx(t *testing.T) {
	sink := &alertSink{status: http.StatusBadGateway}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	err := NewAlertClient(srv.URL).Send(context.Background(), Alert{Text: "x"})
	assert.ErrorContains(t, err, "502")

	fwd := NewAlertForwarder(NewAlertClient(srv.URL), 400, zap.NewNop())
	assert.False(t, fwd.Forward(context.Background(), invocationEvent(500, "boom")))
}
