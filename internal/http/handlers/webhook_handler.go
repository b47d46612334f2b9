package handlers

import (
	"time"

	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/http/dto"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const loggedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// WebhookHandler receives the voice platform's call lifecycle webhooks.
type WebhookHandler struct {
	callLogs    *services.CallLogService
	invocations InvocationLogger
	cfg         *config.Config
	log         *zap.Logger
	now         func() time.Time
}

func NewWebhookHandler(callLogs *services.CallLogService, invocations InvocationLogger, cfg *config.Config, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		callLogs:    callLogs,
		invocations: invocations,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// PreCall injects dynamic variables before the agent dials. The request body
// is recorded but not used.
func (h *WebhookHandler) PreCall(c *fiber.Ctx) error {
	inv := newInvocation(c, h.invocations, PathPreCall, models.CategoryPreCall)
	fallback := dto.FailureResponse{Error: "Failed to process request"}

	return inv.run(fallback, func() error {
		return inv.ok(dto.PreCallResponse{
			Call: dto.PreCallCall{
				DynamicVariables: dto.PreCallVariables{
					PatientName: h.cfg.PreCallPatientName,
					Age:         h.cfg.PreCallPatientAge,
				},
			},
		})
	})
}

// PostCall stores the finished call. Any failure, including an incomplete
// payload or a repeated session id, is a 500.
func (h *WebhookHandler) PostCall(c *fiber.Ctx) error {
	inv := newInvocation(c, h.invocations, PathPostCall, models.CategoryPostCall)
	fallback := dto.FailureResponse{Error: "Failed to save call log"}

	return inv.run(fallback, func() error {
		cl, err := h.callLogs.Ingest(c.Context(), inv.body)
		if err != nil {
			h.log.Error("post-call webhook failed", zap.Error(err))
			return inv.internal(fallback, err)
		}

		return inv.ok(dto.PostCallResponse{
			Success: true,
			Message: "Call log saved successfully",
			Data: dto.PostCallData{
				LogID:        cl.ID.String(),
				SessionID:    cl.SessionID,
				IsSuccessful: cl.IsSuccessful,
				LoggedAt:     h.now().UTC().Format(loggedAtLayout),
			},
		})
	})
}
