package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/clinic-voice/backend/internal/auth"
	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const wsWriteTimeout = 5 * time.Second

// wsClient is the write side of a dashboard socket.
type wsClient interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// LogStream fans invocation events out to connected dashboard sockets.
type LogStream struct {
	cfg        *config.Config
	subscriber events.Subscriber
	log        *zap.Logger

	mu    sync.Mutex
	conns map[wsClient]struct{}
}

func NewLogStream(cfg *config.Config, subscriber events.Subscriber, log *zap.Logger) *LogStream {
	return &LogStream{
		cfg:        cfg,
		subscriber: subscriber,
		log:        log,
		conns:      make(map[wsClient]struct{}),
	}
}

// Start subscribes to the invocation channel until ctx is done.
func (s *LogStream) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, events.StreamInvocations, s.broadcast)
}

func (s *LogStream) broadcast(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	// Writes happen outside the lock; a stalled client hits its deadline
	// and is dropped.
	s.mu.Lock()
	clients := make([]wsClient, 0, len(s.conns))
	for conn := range s.conns {
		clients = append(clients, conn)
	}
	s.mu.Unlock()

	for _, conn := range clients {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Debug("dropping websocket client", zap.Error(err))
			s.remove(conn)
			_ = conn.Close()
		}
	}
}

func (s *LogStream) add(conn wsClient) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *LogStream) remove(conn wsClient) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// Clients returns the number of connected sockets.
func (s *LogStream) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// WSUpgradeMiddleware rejects plain HTTP requests to websocket routes.
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

func (s *LogStream) HandleWS(conn *websocket.Conn) {
	if s.cfg.DashboardAuthEnabled() {
		tokenStr := conn.Query("token")
		if tokenStr == "" {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"missing token"}`))
			conn.Close()
			return
		}
		if _, err := auth.ParseJWT(s.cfg.JWTSecret, tokenStr); err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"invalid token"}`))
			conn.Close()
			return
		}
	}

	s.add(conn)
	defer func() {
		s.remove(conn)
		conn.Close()
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
