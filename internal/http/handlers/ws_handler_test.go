package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSubscriber struct {
	stream  string
	handler func(events.Event)
}

func (s *stubSubscriber) Subscribe(_ context.Context, stream string, handler func(events.Event)) error {
	s.stream = stream
	s.handler = handler
	return nil
}

func TestLogStreamSubscribesToInvocations(t *testing.T) {
	sub := &stubSubscriber{}
	stream := NewLogStream(&config.Config{}, sub, zap.NewNop())

	require.NoError(t, stream.Start(context.Background()))
	assert.Equal(t, events.StreamInvocations, sub.stream)
	require.NotNil(t, sub.handler)

	assert.NotPanics(t, func() {
		sub.handler(events.Event{Type: events.EventInvocationLogged, Payload: map[string]any{"status_code": 200}})
	})
	assert.Equal(t, 0, stream.Clients())
}

func TestWSUpgradeRequired(t *testing.T) {
	stream := NewLogStream(&config.Config{}, &stubSubscriber{}, zap.NewNop())
	app := fiber.New()
	app.Use("/ws", WSUpgradeMiddleware())
	app.Get("/ws/logs", websocket.New(stream.HandleWS))

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/logs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

type fakeClient struct {
	mu       sync.Mutex
	block    chan struct{} // when set, writes wait on it and then fail
	messages [][]byte
	deadline time.Time
	closed   bool
}

func (c *fakeClient) WriteMessage(_ int, data []byte) error {
	if c.block != nil {
		<-c.block
		return errors.New("i/o timeout")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeClient) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func TestLogStreamSlowClientDoesNotHoldLock(t *testing.T) {
	stream := NewLogStream(&config.Config{}, &stubSubscriber{}, zap.NewNop())
	slow := &fakeClient{block: make(chan struct{})}
	fast := &fakeClient{}
	stream.add(slow)
	stream.add(fast)

	done := make(chan struct{})
	go func() {
		stream.broadcast(events.Event{Type: events.EventInvocationLogged})
		close(done)
	}()

	// Registration and counting stay available while a write is stuck.
	counted := make(chan int, 1)
	go func() {
		stream.add(&fakeClient{})
		counted <- stream.Clients()
	}()
	select {
	case n := <-counted:
		assert.Equal(t, 3, n)
	case <-time.After(time.Second):
		t.Fatal("LogStream lock held during a blocked write")
	}

	close(slow.block)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast did not return")
	}

	assert.True(t, slow.closed)
	assert.Len(t, fast.messages, 1)
	assert.False(t, fast.closed)
	assert.False(t, slow.deadline.IsZero(), "write deadline set before writing")
	assert.Equal(t, 2, stream.Clients())
}
