package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
	// StatusCompleted is never stored. It names the derived state of a
	// scheduled appointment whose window has elapsed.
	StatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID           uuid.UUID
	TreatmentID  string
	LocationID   string
	Date         time.Time // calendar date, time of day ignored
	TimeSlotID   string
	Status       AppointmentStatus
	PatientName  string
	PatientEmail string
	PatientPhone string
	Notes        string
	CreatedAt    time.Time
}

// Request carries everything needed to create an appointment. Status and id
// are assigned by the store.
type Request struct {
	TreatmentID  string
	LocationID   string
	Date         time.Time
	TimeSlotID   string
	PatientName  string
	PatientEmail string
	PatientPhone string
	Notes        string
}

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
var SystemClock Clock = systemClock{}
