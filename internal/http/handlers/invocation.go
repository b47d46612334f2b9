package handlers

import (
	"context"
	"fmt"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Audited endpoints. The logged endpoint is the full request path.
const (
	PathPreCall            = "/api/webhooks/pre-call"
	PathPostCall           = "/api/webhooks/post-call"
	PathPatientLookup      = "/api/functions/patient-lookup"
	PathAppointmentBooking = "/api/functions/appointment-booking"
)

// InvocationLogger is satisfied by *services.InvocationLogger.
type InvocationLogger interface {
	LogInvocation(ctx context.Context, p services.InvocationParams)
}

// invocation is one audited handler call. Whatever path the handler takes,
// exactly one record is written: the first reply wins.
type invocation struct {
	c        *fiber.Ctx
	logger   InvocationLogger
	endpoint string
	category string
	body     models.Value
	logged   bool
}

func newInvocation(c *fiber.Ctx, logger InvocationLogger, endpoint, category string) *invocation {
	return &invocation{
		c:        c,
		logger:   logger,
		endpoint: endpoint,
		category: category,
		body:     models.ParseObject(c.Body()),
	}
}

func (inv *invocation) ok(resp any) error {
	return inv.reply(fiber.StatusOK, fiber.StatusOK, resp, "", true)
}

func (inv *invocation) reject(status int, resp any, reason string) error {
	return inv.reply(status, status, resp, reason, true)
}

// internal replies 500 and records the cause. The request body is not
// attached to these records.
func (inv *invocation) internal(resp any, cause error) error {
	return inv.reply(fiber.StatusInternalServerError, fiber.StatusInternalServerError, resp, cause.Error(), false)
}

func (inv *invocation) reply(httpStatus, loggedStatus int, resp any, reason string, withRequest bool) error {
	if !inv.logged {
		inv.logged = true

		respBody, err := models.ValueOf(resp)
		if err != nil {
			respBody = models.EmptyMap()
		}
		p := services.InvocationParams{
			Endpoint:     inv.endpoint,
			Method:       inv.c.Method(),
			StatusCode:   loggedStatus,
			ResponseBody: &respBody,
			ErrorMessage: reason,
			Category:     inv.category,
		}
		if withRequest {
			p.RequestBody = &inv.body
		}
		inv.logger.LogInvocation(inv.c.Context(), p)
	}
	return inv.c.Status(httpStatus).JSON(resp)
}

// run calls fn and turns a panic into the internal reply.
func (inv *invocation) run(fallback any, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = inv.internal(fallback, fmt.Errorf("panic: %v", r))
		}
	}()
	return fn()
}

// textField reads a required scalar field. Missing, empty and falsy values
// read as "".
func textField(body models.Value, key string) string {
	v := body.Lookup(key)
	if !v.Truthy() {
		return ""
	}
	s, _ := v.Text()
	return s
}
