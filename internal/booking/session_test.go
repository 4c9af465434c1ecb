package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking/internal/appointment"
)

func completeSession() Session {
	return Session{
		TreatmentID:  "1",
		LocationID:   "1",
		Date:         time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		TimeSlotID:   "9-00",
		PatientName:  "A",
		PatientEmail: "a@x.com",
		PatientPhone: "555",
	}
}

func TestSession_Completeness(t *testing.T) {
	s := completeSession()
	assert.True(t, s.IsComplete())
	assert.True(t, s.CanCommit())

	s.SetPhone("")
	assert.True(t, s.IsComplete())
	assert.False(t, s.CanCommit())

	s.SetTimeSlot("")
	assert.False(t, s.IsComplete())
	assert.False(t, s.CanCommit())
}

func TestSession_SettersKeepSlot(t *testing.T) {
	s := completeSession()
	s.SetDate(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC))
	s.SetTreatment("3")

	assert.Equal(t, "9-00", s.TimeSlotID)
}

func TestSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Session)
		group   Group
		missing []string
	}{
		{"no treatment", func(s *Session) { s.SetTreatment("") }, GroupSelection, []string{"treatment"}},
		{"no date and slot", func(s *Session) { s.SetDate(time.Time{}); s.SetTimeSlot("") }, GroupSelection, []string{"date", "time_slot"}},
		{"selection wins over contact", func(s *Session) { s.SetLocation(""); s.SetEmail("") }, GroupSelection, []string{"location"}},
		{"blank name", func(s *Session) { s.SetName("   ") }, GroupContact, []string{"name"}},
		{"no contact", func(s *Session) { s.SetName(""); s.SetEmail(""); s.SetPhone("") }, GroupContact, []string{"name", "email", "phone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeSession()
			tt.mutate(&s)

			err := s.Validate()
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.group, verr.Group)
			assert.Equal(t, tt.missing, verr.Missing)
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, MessageSelectionIncomplete, (&ValidationError{Group: GroupSelection}).Message())
	assert.Equal(t, MessageContactIncomplete, (&ValidationError{Group: GroupContact}).Message())
}

func TestSession_Step(t *testing.T) {
	var s Session
	assert.Equal(t, 1, s.Step())
	s.SetTreatment("1")
	assert.Equal(t, 2, s.Step())
	s.SetLocation("1")
	assert.Equal(t, 3, s.Step())
	s.SetDate(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, s.Step())
	s.SetTimeSlot("9-00")
	assert.Equal(t, 4, s.Step())
	s.SetName("A")
	s.SetEmail("a@x.com")
	s.SetPhone("555")
	assert.Equal(t, 5, s.Step())
}

func TestSession_CommitInvalidNeverTouchesStore(t *testing.T) {
	store := appointment.NewMemoryStore(nil)
	s := completeSession()
	s.SetEmail("")

	for i := 0; i < 3; i++ {
		appt, err := s.Commit(context.Background(), StoreBooker(store))
		assert.Nil(t, appt)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, GroupContact, verr.Group)
	}

	all, err := store.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, "9-00", s.TimeSlotID, "draft must survive a failed commit")
}

func TestSession_CommitClearsDraft(t *testing.T) {
	store := appointment.NewMemoryStore(nil)
	s := completeSession()
	s.SetNotes("first visit")

	appt, err := s.Commit(context.Background(), StoreBooker(store))
	require.NoError(t, err)

	assert.Equal(t, appointment.StatusScheduled, appt.Status)
	assert.Equal(t, "9-00", appt.TimeSlotID)
	assert.Equal(t, "first visit", appt.Notes)
	assert.Equal(t, Session{}, s)
}

func TestSession_CommitBookerFailureKeepsDraft(t *testing.T) {
	boom := errors.New("slot taken")
	s := completeSession()

	_, err := s.Commit(context.Background(), BookerFunc(func(context.Context, appointment.Request) (*appointment.Appointment, error) {
		return nil, boom
	}))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, completeSession(), s)
}
