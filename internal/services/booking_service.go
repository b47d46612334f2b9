package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	patients          PatientStore
	doctors           DoctorStore
	appointments      AppointmentStore
	defaultDoctorName string
	log               *zap.Logger
}

func NewBookingService(
	patients PatientStore,
	doctors DoctorStore,
	appointments AppointmentStore,
	defaultDoctorName string,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		patients:          patients,
		doctors:           doctors,
		appointments:      appointments,
		defaultDoctorName: defaultDoctorName,
		log:               log,
	}
}

type BookingRequest struct {
	PatientID string // medical id, matched as given
	DoctorID  string // optional; the default doctor is used when empty
	StartDate string
	Reason    string // optional; models.DefaultAppointmentReason when empty
}

type Booking struct {
	Appointment *models.Appointment
	Patient     *models.Patient
	Doctor      *models.Doctor
}

func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*Booking, error) {
	if req.PatientID == "" || req.StartDate == "" {
		return nil, &ValidationError{Message: "Patient ID and appointment date are required"}
	}

	patient, err := s.patients.GetByMedicalID(ctx, req.PatientID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}

	doctor, err := s.resolveDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	start, err := models.ParseTime(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}

	reason := req.Reason
	if reason == "" {
		reason = models.DefaultAppointmentReason
	}

	appt, err := models.NewAppointment(models.AppointmentParams{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		StartTime: start,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.String("appointment_id", appt.ID.String()),
		zap.String("patient_id", patient.ID.String()),
		zap.String("doctor_id", doctor.ID.String()),
	)

	return &Booking{Appointment: appt, Patient: patient, Doctor: doctor}, nil
}

func (s *BookingService) resolveDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	var (
		doctor *models.Doctor
		err    error
	)
	if doctorID != "" {
		id, parseErr := uuid.Parse(doctorID)
		if parseErr != nil {
			return nil, ErrDoctorNotFound
		}
		doctor, err = s.doctors.GetByID(ctx, id)
	} else {
		doctor, err = s.doctors.GetByName(ctx, s.defaultDoctorName)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrDoctorNotFound
	}
	return doctor, err
}
