package handlers

import (
	"errors"
	"fmt"

	"github.com/clinic-voice/backend/internal/http/dto"
	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	noPreviousVisits = "No previous visits"
	noKnownAllergies = "No known allergies"
)

// FunctionHandler serves the tools the voice agent calls mid-conversation.
type FunctionHandler struct {
	patientService *services.PatientService
	bookingService *services.BookingService
	invocations    InvocationLogger
	log            *zap.Logger
}

func NewFunctionHandler(
	patientService *services.PatientService,
	bookingService *services.BookingService,
	invocations InvocationLogger,
	log *zap.Logger,
) *FunctionHandler {
	return &FunctionHandler{
		patientService: patientService,
		bookingService: bookingService,
		invocations:    invocations,
		log:            log,
	}
}

// PatientLookup answers with HTTP 200 even when the patient is missing; the
// agent reads "found" instead of the status. The audit record keeps the real
// 400/404 status.
func (h *FunctionHandler) PatientLookup(c *fiber.Ctx) error {
	inv := newInvocation(c, h.invocations, PathPatientLookup, models.CategoryPatientLookup)
	fallback := dto.ErrorResponse{Error: "Failed to lookup patient"}

	return inv.run(fallback, func() error {
		summary, err := h.patientService.Lookup(c.Context(), textField(inv.body, dto.FieldMedicalID))

		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return inv.reply(fiber.StatusOK, fiber.StatusBadRequest,
				dto.PatientLookupError{Error: verr.Message}, verr.Message, true)
		case errors.Is(err, services.ErrPatientNotFound):
			return inv.reply(fiber.StatusOK, fiber.StatusNotFound,
				dto.PatientLookupError{Error: "Patient not found with this Medical ID"}, "Patient not found", true)
		case err != nil:
			h.log.Error("patient lookup failed", zap.Error(err))
			return inv.internal(fallback, err)
		}

		resp := dto.PatientLookupResponse{
			PatientName: summary.Patient.Name,
			MedicalID:   summary.Patient.MedicalID,
			Age:         summary.Patient.Age,
			LastVisit:   noPreviousVisits,
			Notes:       noKnownAllergies,
			Found:       true,
		}
		if rec := summary.LatestRecord; rec != nil {
			if !rec.VisitDate.IsZero() {
				resp.LastVisit = rec.VisitDate.UTC().Format(models.LastVisitLayout)
			}
			if rec.Notes != nil && *rec.Notes != "" {
				resp.Notes = *rec.Notes
			}
		}
		return inv.ok(resp)
	})
}

func (h *FunctionHandler) AppointmentBooking(c *fiber.Ctx) error {
	inv := newInvocation(c, h.invocations, PathAppointmentBooking, models.CategoryAppointmentBooking)
	fallback := dto.BookingError{Error: "Failed to create appointment"}

	return inv.run(fallback, func() error {
		req := services.BookingRequest{
			PatientID: textField(inv.body, dto.FieldPatientID),
			DoctorID:  textField(inv.body, dto.FieldDoctorID),
			StartDate: textField(inv.body, dto.FieldStartDate),
			Reason:    textField(inv.body, dto.FieldReason),
		}

		booking, err := h.bookingService.Book(c.Context(), req)

		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return inv.reject(fiber.StatusBadRequest, dto.BookingError{Error: verr.Message}, "Missing required fields")
		case errors.Is(err, services.ErrPatientNotFound):
			return inv.reject(fiber.StatusNotFound, dto.BookingError{Error: "Patient not found"}, "Patient not found")
		case errors.Is(err, services.ErrDoctorNotFound):
			return inv.reject(fiber.StatusNotFound, dto.BookingError{Error: "Doctor not found"}, "Doctor not found")
		case err != nil:
			h.log.Error("appointment booking failed", zap.Error(err))
			return inv.internal(fallback, err)
		}

		reason := models.DefaultAppointmentReason
		if booking.Appointment.Reason != nil {
			reason = *booking.Appointment.Reason
		}

		return inv.ok(dto.BookingResponse{
			BookingSuccess:      true,
			AppointmentID:       booking.Appointment.ID.String(),
			AppointmentDate:     inv.body.Lookup(dto.FieldStartDate),
			PatientName:         booking.Patient.Name,
			DoctorName:          booking.Doctor.Name,
			AppointmentReason:   reason,
			ConfirmationMessage: fmt.Sprintf("Appointment scheduled for %s with %s", booking.Patient.Name, booking.Doctor.Name),
		})
	})
}
