package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/notify"
)

// Timer re-evaluates an appointment countdown on a fixed interval. It
// evaluates once on Start, raises a single due notification, and stops by
// itself once the appointment is past. onTick must not call Dismiss.
type Timer struct {
	appt     appointment.Appointment
	clock    appointment.Clock
	interval time.Duration
	onTick   func(State)
	notifier notify.Sink

	mu      sync.Mutex
	stopped bool
	dueSent bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewTimer(appt appointment.Appointment, clock appointment.Clock, interval time.Duration, notifier notify.Sink, onTick func(State)) *Timer {
	if clock == nil {
		clock = appointment.SystemClock
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Timer{
		appt:     appt,
		clock:    clock,
		interval: interval,
		onTick:   onTick,
		notifier: notifier,
		cancel:   func() {},
		done:     make(chan struct{}),
	}
}

// Start evaluates immediately and then keeps ticking in the background until
// ctx is cancelled, Dismiss is called, or the appointment becomes past.
func (t *Timer) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	if !t.tick(ctx) {
		cancel()
		close(t.done)
		return
	}
	go t.run(ctx)
}

func (t *Timer) run(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.tick(ctx) {
				return
			}
		}
	}
}

// tick evaluates the countdown once. The due notification is sent after the
// lock is released so a slow sink cannot hold up Dismiss.
func (t *Timer) tick(ctx context.Context) bool {
	due, alive := t.evaluate(ctx)
	if due != nil {
		t.notifier.Notify(ctx, *due)
	}
	return alive
}

func (t *Timer) evaluate(ctx context.Context) (*notify.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || ctx.Err() != nil {
		return nil, false
	}

	st, err := Compute(t.appt, t.clock.Now())
	if err != nil {
		t.stopped = true
		return nil, false
	}

	var due *notify.Notification
	if st.Due && !t.dueSent && st.Class == appointment.ClassActive {
		t.dueSent = true
		id := t.appt.ID
		due = &notify.Notification{
			Level:         notify.LevelInfo,
			Event:         notify.EventAppointmentDue,
			Message:       DueMessage,
			AppointmentID: &id,
			CreatedAt:     st.ComputedAt,
		}
	}

	if t.onTick != nil {
		t.onTick(st)
	}

	if st.Class == appointment.ClassPast {
		t.stopped = true
		return due, false
	}
	return due, true
}

// Dismiss stops the timer. Once it returns no further tick callbacks run.
// The appointment itself is unaffected.
func (t *Timer) Dismiss() {
	t.mu.Lock()
	t.stopped = true
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
}

// Done is closed when the background loop has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
