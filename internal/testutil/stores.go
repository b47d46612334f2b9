// Package testutil provides in-memory stores for service and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/clinic-voice/backend/internal/models"
	"github.com/clinic-voice/backend/internal/repositories"
	"github.com/google/uuid"
)

// ErrStoreDown is what a store returns once its Fail flag is set.
var ErrStoreDown = errors.New("store unavailable")

type Patients struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Patient
	Fail bool
}

func NewPatients(patients ...*models.Patient) *Patients {
	s := &Patients{byID: make(map[uuid.UUID]*models.Patient)}
	for _, p := range patients {
		s.Add(p)
	}
	return s
}

// Add stores p as-is; the medical id is not normalized.
func (s *Patients) Add(p *models.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.byID[p.ID] = p
}

func (s *Patients) GetByMedicalID(_ context.Context, medicalID string) (*models.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, p := range s.byID {
		if p.MedicalID == medicalID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Upsert mirrors the repository: the medical id is normalized and an
// existing patient keeps its id.
func (s *Patients) Upsert(_ context.Context, p *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	p.MedicalID = models.NormalizeMedicalID(p.MedicalID)
	for id, existing := range s.byID {
		if existing.MedicalID == p.MedicalID {
			p.ID = id
			break
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	s.byID[p.ID] = &cp
	return nil
}

// Len returns the number of stored patients.
func (s *Patients) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

type Doctors struct {
	mu      sync.Mutex
	doctors []*models.Doctor
	Fail    bool
}

func NewDoctors(doctors ...*models.Doctor) *Doctors {
	s := &Doctors{}
	for _, d := range doctors {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		s.doctors = append(s.doctors, d)
	}
	return s
}

func (s *Doctors) GetByID(_ context.Context, id uuid.UUID) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, d := range s.doctors {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Doctors) GetByName(_ context.Context, name string) (*models.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, d := range s.doctors {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Doctors) Create(_ context.Context, d *models.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	s.doctors = append(s.doctors, &cp)
	return nil
}

func (s *Doctors) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.doctors)
}

type Appointments struct {
	mu       sync.Mutex
	items    []*models.Appointment
	patients *Patients
	doctors  *Doctors
	Fail     bool
}

// NewAppointments resolves participants for ListDetailed from patients and doctors.
func NewAppointments(patients *Patients, doctors *Doctors) *Appointments {
	return &Appointments{patients: patients, doctors: doctors}
}

func (s *Appointments) Create(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	cp := *a
	s.items = append(s.items, &cp)
	return nil
}

// All returns stored appointments in insertion order.
func (s *Appointments) All() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Appointment, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, *a)
	}
	return out
}

func (s *Appointments) ListDetailed(ctx context.Context) ([]models.AppointmentDetail, error) {
	s.mu.Lock()
	if s.Fail {
		s.mu.Unlock()
		return nil, ErrStoreDown
	}
	items := append([]*models.Appointment(nil), s.items...)
	s.mu.Unlock()

	out := make([]models.AppointmentDetail, 0, len(items))
	for _, a := range items {
		d := models.AppointmentDetail{Appointment: *a}
		if s.patients != nil {
			s.patients.mu.Lock()
			if p, ok := s.patients.byID[a.PatientID]; ok {
				d.Patient = models.PatientRef{Name: p.Name, MedicalID: p.MedicalID}
			}
			s.patients.mu.Unlock()
		}
		if s.doctors != nil {
			if doc, err := s.doctors.GetByID(ctx, a.DoctorID); err == nil {
				d.Doctor = *doc
			}
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

type MedicalRecords struct {
	mu      sync.Mutex
	records []*models.MedicalRecord
	Fail    bool
}

func NewMedicalRecords(records ...*models.MedicalRecord) *MedicalRecords {
	return &MedicalRecords{records: records}
}

func (s *MedicalRecords) LatestForPatient(_ context.Context, patientID uuid.UUID) (*models.MedicalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	var latest *models.MedicalRecord
	for _, r := range s.records {
		if r.PatientID != patientID {
			continue
		}
		if latest == nil || r.VisitDate.After(latest.VisitDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *MedicalRecords) Create(_ context.Context, r *models.MedicalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	cp := *r
	s.records = append(s.records, &cp)
	return nil
}

func (s *MedicalRecords) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type CallLogs struct {
	mu    sync.Mutex
	items []*models.CallLog
	Fail  bool
}

func NewCallLogs() *CallLogs {
	return &CallLogs{}
}

func (s *CallLogs) Create(_ context.Context, cl *models.CallLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for _, existing := range s.items {
		if existing.SessionID == cl.SessionID {
			return fmt.Errorf("%w: session_id %s", repositories.ErrConflict, cl.SessionID)
		}
	}
	cp := *cl
	s.items = append(s.items, &cp)
	return nil
}

func (s *CallLogs) List(_ context.Context) ([]models.CallLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := make([]models.CallLog, 0, len(s.items))
	for _, cl := range s.items {
		out = append(out, *cl)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// InvocationLogs is an append-only audit store.
type InvocationLogs struct {
	mu      sync.Mutex
	entries []models.InvocationLog
	Fail    bool
}

func NewInvocationLogs() *InvocationLogs {
	return &InvocationLogs{}
}

func (s *InvocationLogs) Create(_ context.Context, entry *models.InvocationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *InvocationLogs) List(_ context.Context) ([]models.InvocationLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := append([]models.InvocationLog{}, s.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// Entries returns records in insertion order.
func (s *InvocationLogs) Entries() []models.InvocationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InvocationLog{}, s.entries...)
}
