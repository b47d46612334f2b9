package middleware

import (
	"time"

	"github.com/clinic-voice/backend/internal/auth"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	HeaderWebhookTimestamp = "X-Webhook-Timestamp"
	HeaderWebhookSignature = "X-Webhook-Signature"
)

// WebhookSignatureMiddleware rejects unsigned or tampered webhook calls
// before they reach a handler. An empty secret disables the check.
func WebhookSignatureMiddleware(secret string, maxAge time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		err := auth.VerifyWebhookSignature(
			c.Body(),
			c.Get(HeaderWebhookTimestamp),
			c.Get(HeaderWebhookSignature),
			secret,
			maxAge,
		)
		if err != nil {
			log.Warn("webhook signature rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid webhook signature"})
		}
		return c.Next()
	}
}
