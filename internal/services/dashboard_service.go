package services

import (
	"context"

	"github.com/clinic-voice/backend/internal/models"
)

// DashboardService backs the read-only dashboard listings.
type DashboardService struct {
	appointments AppointmentStore
	callLogs     CallLogStore
	invocations  InvocationLogReader
}

func NewDashboardService(appointments AppointmentStore, callLogs CallLogStore, invocations InvocationLogReader) *DashboardService {
	return &DashboardService{appointments: appointments, callLogs: callLogs, invocations: invocations}
}

func (s *DashboardService) Appointments(ctx context.Context) ([]models.AppointmentDetail, error) {
	return s.appointments.ListDetailed(ctx)
}

func (s *DashboardService) CallLogs(ctx context.Context) ([]models.CallLog, error) {
	return s.callLogs.List(ctx)
}

func (s *DashboardService) InvocationLogs(ctx context.Context) ([]models.InvocationLog, error) {
	return s.invocations.List(ctx)
}
