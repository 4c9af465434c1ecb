package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hackgods/clinic-booking/internal/appointment"
)

type Group string

const (
	GroupSelection Group = "selection"
	GroupContact   Group = "contact"
)

const (
	MessageSelectionIncomplete = "Please complete all required fields"
	MessageContactIncomplete   = "Please provide your contact information"
)

// ValidationError reports the first incomplete group of a draft.
type ValidationError struct {
	Group   Group
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking incomplete: missing %s fields: %s", e.Group, strings.Join(e.Missing, ", "))
}

// Message is the user-facing text for the failure.
func (e *ValidationError) Message() string {
	if e.Group == GroupContact {
		return MessageContactIncomplete
	}
	return MessageSelectionIncomplete
}

// Booker commits a finished draft.
type Booker interface {
	Book(ctx context.Context, req appointment.Request) (*appointment.Appointment, error)
}

type BookerFunc func(ctx context.Context, req appointment.Request) (*appointment.Appointment, error)

func (f BookerFunc) Book(ctx context.Context, req appointment.Request) (*appointment.Appointment, error) {
	return f(ctx, req)
}

// StoreBooker commits straight into a store without the slot re-check.
func StoreBooker(store appointment.Store) Booker {
	return BookerFunc(store.Create)
}

// Session is a single user's in-progress booking. Setters never clear other
// fields; in particular a new date or treatment keeps the chosen slot.
type Session struct {
	TreatmentID string
	LocationID  string
	Date        time.Time
	TimeSlotID  string

	PatientName  string
	PatientEmail string
	PatientPhone string
	Notes        string
}

func (s *Session) SetTreatment(id string) { s.TreatmentID = id }
func (s *Session) SetLocation(id string)  { s.LocationID = id }
func (s *Session) SetDate(d time.Time)    { s.Date = d }
func (s *Session) SetTimeSlot(id string)  { s.TimeSlotID = id }
func (s *Session) SetName(v string)       { s.PatientName = v }
func (s *Session) SetEmail(v string)      { s.PatientEmail = v }
func (s *Session) SetPhone(v string)      { s.PatientPhone = v }
func (s *Session) SetNotes(v string)      { s.Notes = v }

func (s *Session) missingSelection() []string {
	var missing []string
	if s.TreatmentID == "" {
		missing = append(missing, "treatment")
	}
	if s.LocationID == "" {
		missing = append(missing, "location")
	}
	if s.Date.IsZero() {
		missing = append(missing, "date")
	}
	if s.TimeSlotID == "" {
		missing = append(missing, "time_slot")
	}
	return missing
}

func (s *Session) missingContact() []string {
	var missing []string
	if strings.TrimSpace(s.PatientName) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.PatientEmail) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.PatientPhone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// IsComplete reports whether treatment, location, date and slot are chosen.
func (s *Session) IsComplete() bool {
	return len(s.missingSelection()) == 0
}

// CanCommit additionally requires name, email and phone.
func (s *Session) CanCommit() bool {
	return s.IsComplete() && len(s.missingContact()) == 0
}

// Validate returns a *ValidationError naming the first incomplete group, or nil.
func (s *Session) Validate() error {
	if missing := s.missingSelection(); len(missing) > 0 {
		return &ValidationError{Group: GroupSelection, Missing: missing}
	}
	if missing := s.missingContact(); len(missing) > 0 {
		return &ValidationError{Group: GroupContact, Missing: missing}
	}
	return nil
}

// Step is the furthest wizard step the draft can reach: 1 treatment,
// 2 location, 3 date and time, 4 contact details, 5 summary.
func (s *Session) Step() int {
	switch {
	case s.TreatmentID == "":
		return 1
	case s.LocationID == "":
		return 2
	case s.Date.IsZero() || s.TimeSlotID == "":
		return 3
	case len(s.missingContact()) > 0:
		return 4
	default:
		return 5
	}
}

// Request builds the appointment request for the current draft.
func (s *Session) Request() appointment.Request {
	return appointment.Request{
		TreatmentID:  s.TreatmentID,
		LocationID:   s.LocationID,
		Date:         s.Date,
		TimeSlotID:   s.TimeSlotID,
		PatientName:  strings.TrimSpace(s.PatientName),
		PatientEmail: strings.TrimSpace(s.PatientEmail),
		PatientPhone: strings.TrimSpace(s.PatientPhone),
		Notes:        s.Notes,
	}
}

// Commit validates the draft, books it and clears the draft on success. An
// invalid draft never reaches the booker. A booker failure leaves the draft
// as it was.
func (s *Session) Commit(ctx context.Context, b Booker) (*appointment.Appointment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	appt, err := b.Book(ctx, s.Request())
	if err != nil {
		return nil, err
	}

	s.Reset()
	return appt, nil
}

func (s *Session) Reset() {
	*s = Session{}
}
