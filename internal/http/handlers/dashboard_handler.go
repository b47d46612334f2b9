package handlers

import (
	"github.com/clinic-voice/backend/internal/http/dto"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardHandler serves the read-only dashboard listings. These reads are
// not audited.
type DashboardHandler struct {
	dashboard *services.DashboardService
	log       *zap.Logger
}

func NewDashboardHandler(dashboard *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, log: log}
}

func (h *DashboardHandler) Appointments(c *fiber.Ctx) error {
	appointments, err := h.dashboard.Appointments(c.Context())
	if err != nil {
		h.log.Error("failed to fetch appointments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.FailureResponse{Error: "Failed to fetch appointments"})
	}
	return c.JSON(dto.AppointmentsResponse{
		Success:      true,
		Count:        len(appointments),
		Appointments: appointments,
	})
}

func (h *DashboardHandler) CallLogs(c *fiber.Ctx) error {
	callLogs, err := h.dashboard.CallLogs(c.Context())
	if err != nil {
		h.log.Error("failed to fetch call logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.FailureResponse{Error: "Failed to fetch call logs"})
	}
	return c.JSON(dto.CallLogsResponse{Success: true, CallLogs: callLogs})
}

func (h *DashboardHandler) Logs(c *fiber.Ctx) error {
	logs, err := h.dashboard.InvocationLogs(c.Context())
	if err != nil {
		h.log.Error("failed to fetch logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.FailureResponse{Error: "Failed to fetch logs"})
	}
	return c.JSON(dto.InvocationLogsResponse{Success: true, Logs: logs})
}
