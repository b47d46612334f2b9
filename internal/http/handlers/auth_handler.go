package handlers

import (
	"crypto/subtle"

	"github.com/clinic-voice/backend/internal/auth"
	"github.com/clinic-voice/backend/internal/config"
	"github.com/clinic-voice/backend/internal/http/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// Login exchanges the dashboard operator's credentials for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if !h.cfg.DashboardAuthEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "dashboard login is disabled"})
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "username and password are required"})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.cfg.DashboardUsername)) == 1
	passOK := auth.CheckPassword(h.cfg.DashboardPasswordHash, req.Password)
	if !userOK || !passOK {
		h.log.Info("dashboard login rejected", zap.String("username", req.Username), zap.String("ip", c.IP()))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}

	token, expiresAt, err := auth.GenerateJWT(h.cfg.JWTSecret, req.Username, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
	})
}
