package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Store owns the appointment collection.
type Store interface {
	// Create appends a new scheduled appointment. It does not validate the
	// request; callers are trusted.
	Create(ctx context.Context, req Request) (*Appointment, error)

	// Cancel flips an appointment to cancelled and reports the status it had
	// before, read under the same lock. Unknown ids return
	// ErrAppointmentNotFound and leave the collection untouched.
	Cancel(ctx context.Context, id uuid.UUID) (*Appointment, AppointmentStatus, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)

	// For conflict checks
	FindScheduled(ctx context.Context, date time.Time, timeSlotID string) (*Appointment, error)
}
