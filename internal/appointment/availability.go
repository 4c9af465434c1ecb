package appointment

import (
	"time"

	"github.com/hackgods/clinic-booking/internal/slot"
)

// Resolver derives per-date availability from the daily slot template and the
// scheduled appointments. The template is generated once and never mutated.
type Resolver struct {
	template []slot.TimeSlot
	index    map[string]int
}

func NewResolver() *Resolver {
	template := slot.GenerateDailySlots()
	index := make(map[string]int, len(template))
	for i, s := range template {
		index[s.ID] = i
	}
	return &Resolver{template: template, index: index}
}

// Template returns a copy of the daily slot template.
func (r *Resolver) Template() []slot.TimeSlot {
	return append([]slot.TimeSlot(nil), r.template...)
}

// Known reports whether id names a slot of the template.
func (r *Resolver) Known(id string) bool {
	_, ok := r.index[id]
	return ok
}

// AvailableSlots tags every template slot with its availability on date.
// A zero date yields no slots.
func (r *Resolver) AvailableSlots(date time.Time, appts []Appointment) []slot.Availability {
	if date.IsZero() {
		return []slot.Availability{}
	}

	result := make([]slot.Availability, len(r.template))
	for i, s := range r.template {
		result[i] = slot.Availability{TimeSlot: s, Available: true}
	}

	for _, a := range appts {
		if a.Status != StatusScheduled || !slot.SameDay(a.Date, date) {
			continue
		}
		if i, ok := r.index[a.TimeSlotID]; ok {
			result[i].Available = false
		}
	}

	return result
}
