package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-booking/internal/slot"
)

// MemoryStore keeps appointments in process memory in insertion order.
// Appointments are never deleted.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*Appointment
	byID  map[uuid.UUID]*Appointment
	clock Clock
}

func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryStore{
		byID:  make(map[uuid.UUID]*Appointment),
		clock: clock,
	}
}

func (s *MemoryStore) Create(ctx context.Context, req Request) (*Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	appt := &Appointment{
		ID:           uuid.New(),
		TreatmentID:  req.TreatmentID,
		LocationID:   req.LocationID,
		Date:         slot.DateOf(req.Date),
		TimeSlotID:   req.TimeSlotID,
		Status:       StatusScheduled,
		PatientName:  req.PatientName,
		PatientEmail: req.PatientEmail,
		PatientPhone: req.PatientPhone,
		Notes:        req.Notes,
		CreatedAt:    s.clock.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, appt)
	s.byID[appt.ID] = appt

	out := *appt
	return &out, nil
}

func (s *MemoryStore) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, AppointmentStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.byID[id]
	if !ok {
		return nil, "", ErrAppointmentNotFound
	}
	previous := appt.Status
	appt.Status = StatusCancelled

	out := *appt
	return &out, previous, nil
}

func (s *MemoryStore) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *appt
	return &out, nil
}

func (s *MemoryStore) ListAppointments(ctx context.Context) ([]Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Appointment, 0, len(s.items))
	for _, a := range s.items {
		result = append(result, *a)
	}
	return result, nil
}

func (s *MemoryStore) FindScheduled(ctx context.Context, date time.Time, timeSlotID string) (*Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.items {
		if a.Status == StatusScheduled && a.TimeSlotID == timeSlotID && slot.SameDay(a.Date, date) {
			out := *a
			return &out, nil
		}
	}
	return nil, ErrAppointmentNotFound
}
