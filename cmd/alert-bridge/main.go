package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/db"
	"github.com/clinic-voice/backend/internal/events"
	"github.com/clinic-voice/backend/internal/services"
	"go.uber.org/zap"
)

// Alert bridge: subscribes to invocation events and posts failed
// invocations to ALERT_WEBHOOK_URL.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.AlertWebhookURL == "" {
		log.Fatal("ALERT_WEBHOOK_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb == nil {
		log.Fatal("REDIS_URL is required")
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	forwarder := services.NewAlertForwarder(services.NewAlertClient(cfg.AlertWebhookURL), cfg.AlertMinStatus, log)

	err = subscriber.Subscribe(ctx, events.StreamInvocations, func(event events.Event) {
		forwarder.Forward(ctx, event)
	})
	if err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	log.Info("alert-bridge started", zap.Int("min_status", cfg.AlertMinStatus))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down alert-bridge")
	cancel()
}
