package api

import (
	"time"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	Date      string         `json:"date"`
	Morning   []SlotResponse `json:"morning"`
	Afternoon []SlotResponse `json:"afternoon"`
}

// SessionPatch is a partial update of a booking draft. Absent fields are left
// alone; an empty date clears the date.
type SessionPatch struct {
	TreatmentID *string `json:"treatment_id"`
	LocationID  *string `json:"location_id"`
	Date        *string `json:"date"`
	TimeSlotID  *string `json:"time_slot_id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Notes       *string `json:"notes"`
}

type SessionResponse struct {
	ID          uuid.UUID `json:"id"`
	TreatmentID string    `json:"treatment_id,omitempty"`
	LocationID  string    `json:"location_id,omitempty"`
	Date        string    `json:"date,omitempty"`
	TimeSlotID  string    `json:"time_slot_id,omitempty"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Step        int       `json:"step"`
	IsComplete  bool      `json:"is_complete"`
	CanCommit   bool      `json:"can_commit"`
}

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	TreatmentID   string    `json:"treatment_id"`
	TreatmentName string    `json:"treatment_name"`
	LocationID    string    `json:"location_id"`
	LocationName  string    `json:"location_name"`
	Date          string    `json:"date"`
	TimeSlotID    string    `json:"time_slot_id"`
	StartTime     string    `json:"start_time,omitempty"`
	Status        string    `json:"status"`
	DisplayStatus string    `json:"display_status"`
	StatusLabel   string    `json:"status_label"`
	Class         string    `json:"class"`
	PatientName   string    `json:"patient_name"`
	PatientEmail  string    `json:"patient_email"`
	PatientPhone  string    `json:"patient_phone"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type AppointmentListResponse struct {
	Active []AppointmentResponse `json:"active"`
	Past   []AppointmentResponse `json:"past"`
	AsOf   time.Time             `json:"as_of"`
}

type CommitResponse struct {
	Message     string              `json:"message"`
	Appointment AppointmentResponse `json:"appointment"`
}

type CancelResponse struct {
	Message     string              `json:"message"`
	Appointment AppointmentResponse `json:"appointment"`
}

type CountdownResponse struct {
	AppointmentID    uuid.UUID `json:"appointment_id"`
	Start            time.Time `json:"start"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Progress         float64   `json:"progress"`
	Due              bool      `json:"due"`
	Label            string    `json:"label"`
	Class            string    `json:"class"`
	ComputedAt       time.Time `json:"computed_at"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Missing []string `json:"missing,omitempty"`
}
