package countdown

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/notify"
)

func TestWatcher_FollowsBookingEvents(t *testing.T) {
	store := appointment.NewMemoryStore(nil)
	appt, err := store.Create(context.Background(), appointment.Request{Date: slotStart, TimeSlotID: "9-00"})
	require.NoError(t, err)

	clock := &testClock{now: slotStart.Add(-2 * time.Hour)}
	w := NewWatcher(store, clock, time.Minute, nil, nil)
	t.Cleanup(w.Stop)

	id := appt.ID
	w.Notify(context.Background(), notify.Notification{Event: notify.EventAppointmentBooked, AppointmentID: &id})
	assert.Equal(t, 1, w.Active())

	w.Notify(context.Background(), notify.Notification{Event: notify.EventAppointmentCancelled, AppointmentID: &id})
	assert.Equal(t, 0, w.Active())
}

func TestWatcher_IgnoresPastAndUnknown(t *testing.T) {
	store := appointment.NewMemoryStore(nil)
	appt, err := store.Create(context.Background(), appointment.Request{Date: slotStart, TimeSlotID: "9-00"})
	require.NoError(t, err)

	clock := &testClock{now: slotStart.Add(3 * time.Hour)}
	w := NewWatcher(store, clock, time.Minute, nil, nil)
	t.Cleanup(w.Stop)

	w.Watch(*appt)
	assert.Equal(t, 0, w.Active())

	missing := uuid.New()
	w.Notify(context.Background(), notify.Notification{Event: notify.EventAppointmentBooked, AppointmentID: &missing})
	w.Notify(context.Background(), notify.Notification{Event: notify.EventAppointmentBooked})
	assert.Equal(t, 0, w.Active())
}

func TestWatcher_StopRefusesNewTimers(t *testing.T) {
	clock := &testClock{now: slotStart.Add(-2 * time.Hour)}
	w := NewWatcher(appointment.NewMemoryStore(nil), clock, time.Minute, nil, nil)

	w.Watch(testAppointment())
	assert.Equal(t, 1, w.Active())

	w.Stop()
	assert.Equal(t, 0, w.Active())

	w.Watch(testAppointment())
	assert.Equal(t, 0, w.Active())
}

func TestWatcher_SlowSinkDoesNotHoldWatcherLock(t *testing.T) {
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	w := NewWatcher(appointment.NewMemoryStore(nil), &testClock{now: slotStart}, time.Minute, sink, nil)
	t.Cleanup(w.Stop)

	go w.Watch(testAppointment())

	select {
	case <-sink.entered:
	case <-time.After(time.Second):
		t.Fatal("due notification was never sent")
	}

	active := make(chan int, 1)
	go func() { active <- w.Active() }()

	select {
	case n := <-active:
		assert.Equal(t, 1, n)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("watcher lock held while notifying")
	}

	close(sink.release)
}
