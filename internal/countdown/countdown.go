package countdown

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hackgods/clinic-booking/internal/appointment"
)

const (
	// ProgressWindow is the span the progress bar drains over before the start.
	ProgressWindow = time.Hour
	DueLabel       = "Appointment time!"
	DueMessage     = "Your appointment is starting now!"
)

// State is a single evaluation of the time left until an appointment.
type State struct {
	Start      time.Time
	Remaining  time.Duration
	Progress   float64 // 0..100
	Due        bool
	Label      string
	Class      appointment.Class
	ComputedAt time.Time
}

// Compute evaluates the countdown for appt at now.
func Compute(appt appointment.Appointment, now time.Time) (State, error) {
	start, err := appointment.SlotStart(appt)
	if err != nil {
		return State{}, err
	}

	st := State{
		Start:      start,
		Class:      appointment.Classify(appt, now),
		ComputedAt: now,
	}

	diff := start.Sub(now)
	if diff <= 0 {
		st.Due = true
		st.Label = DueLabel
		return st, nil
	}

	st.Remaining = diff
	st.Label = humanize.RelTime(start, now, "ago", "from now")
	st.Progress = float64(diff) / float64(ProgressWindow) * 100
	if st.Progress > 100 {
		st.Progress = 100
	}
	return st, nil
}
