package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking/internal/slot"
)

func mustDate(t *testing.T, year int, month time.Month, day int) time.Time {
	t.Helper()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func scheduledOn(date time.Time, slotID string) Appointment {
	return Appointment{
		ID:          uuid.New(),
		TreatmentID: "1",
		LocationID:  "1",
		Date:        date,
		TimeSlotID:  slotID,
		Status:      StatusScheduled,
	}
}

func unavailableIDs(slots []slot.Availability) []string {
	var ids []string
	for _, s := range slots {
		if !s.Available {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func TestAvailableSlots_NoAppointments(t *testing.T) {
	r := NewResolver()

	for _, date := range []time.Time{
		mustDate(t, 2025, 6, 10),
		mustDate(t, 2024, 2, 29),
		mustDate(t, 2030, 12, 31),
	} {
		slots := r.AvailableSlots(date, nil)
		require.Len(t, slots, 18)
		assert.Empty(t, unavailableIDs(slots))
	}
}

func TestAvailableSlots_ZeroDate(t *testing.T) {
	r := NewResolver()
	slots := r.AvailableSlots(time.Time{}, []Appointment{scheduledOn(mustDate(t, 2025, 6, 10), "9-00")})

	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestAvailableSlots_MarksExactlyBookedSlot(t *testing.T) {
	r := NewResolver()
	date := mustDate(t, 2025, 6, 10)

	for _, s := range r.Template() {
		slots := r.AvailableSlots(date, []Appointment{scheduledOn(date, s.ID)})
		assert.Equal(t, []string{s.ID}, unavailableIDs(slots))
	}
}

func TestAvailableSlots_IgnoresTimeOfDayOnDates(t *testing.T) {
	r := NewResolver()
	booked := scheduledOn(time.Date(2025, 6, 10, 22, 15, 0, 0, time.UTC), "14-30")

	slots := r.AvailableSlots(time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC), []Appointment{booked})
	assert.Equal(t, []string{"14-30"}, unavailableIDs(slots))
}

func TestAvailableSlots_OtherDatesAndStatuses(t *testing.T) {
	r := NewResolver()
	date := mustDate(t, 2025, 6, 10)

	otherDay := scheduledOn(date.AddDate(0, 0, 1), "9-00")
	cancelled := scheduledOn(date, "10-00")
	cancelled.Status = StatusCancelled
	completed := scheduledOn(date, "10-30")
	completed.Status = StatusCompleted
	unknownSlot := scheduledOn(date, "23-00")

	slots := r.AvailableSlots(date, []Appointment{otherDay, cancelled, completed, unknownSlot})
	assert.Empty(t, unavailableIDs(slots))
}

func TestAvailableSlots_OrderMatchesTemplate(t *testing.T) {
	r := NewResolver()
	date := mustDate(t, 2025, 6, 10)
	slots := r.AvailableSlots(date, []Appointment{scheduledOn(date, "12-00")})

	template := r.Template()
	require.Len(t, slots, len(template))
	for i := range template {
		assert.Equal(t, template[i], slots[i].TimeSlot)
	}
}

func TestResolver_TemplateIsNotShared(t *testing.T) {
	r := NewResolver()
	date := mustDate(t, 2025, 6, 10)

	first := r.AvailableSlots(date, []Appointment{scheduledOn(date, "8-00")})
	first[1].Available = false

	second := r.AvailableSlots(date, nil)
	assert.Empty(t, unavailableIDs(second))
	assert.True(t, r.Known("16-30"))
	assert.False(t, r.Known("17-00"))
}
