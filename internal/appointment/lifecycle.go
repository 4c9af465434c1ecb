package appointment

import (
	"fmt"
	"time"

	"github.com/hackgods/clinic-booking/internal/slot"
)

// GraceWindow is how long after its start an appointment still counts as active.
const GraceWindow = 30 * time.Minute

type Class string

const (
	ClassActive Class = "active"
	ClassPast   Class = "past"
)

// SlotStart combines the appointment date with the start time encoded in its
// slot id.
func SlotStart(a Appointment) (time.Time, error) {
	start, err := slot.ParseID(a.TimeSlotID)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment %s: %w", a.ID, err)
	}
	return slot.At(a.Date, start), nil
}

// Classify places an appointment in exactly one of active or past for the
// given instant. An appointment whose slot id cannot be decoded is anchored
// at the start of its date.
func Classify(a Appointment, now time.Time) Class {
	if a.Status == StatusCancelled {
		return ClassPast
	}

	start, err := SlotStart(a)
	if err != nil {
		start = slot.DateOf(a.Date)
	}

	if a.Status == StatusScheduled && !start.Add(GraceWindow).Before(now) {
		return ClassActive
	}
	return ClassPast
}

// EffectiveStatus reports the status as it should be displayed: scheduled
// appointments whose window has elapsed read as completed.
func EffectiveStatus(a Appointment, now time.Time) AppointmentStatus {
	if a.Status == StatusScheduled && Classify(a, now) == ClassPast {
		return StatusCompleted
	}
	return a.Status
}

// Groups is a listing split by classification, each side in store order.
type Groups struct {
	Active []Appointment
	Past   []Appointment
}

func Group(appts []Appointment, now time.Time) Groups {
	var g Groups
	for _, a := range appts {
		switch Classify(a, now) {
		case ClassActive:
			g.Active = append(g.Active, a)
		default:
			g.Past = append(g.Past, a)
		}
	}
	return g
}
