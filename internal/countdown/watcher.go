package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/notify"
)

// Getter loads an appointment by id.
type Getter interface {
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

// Watcher keeps one Timer per active appointment. It is itself a notify.Sink:
// booked appointments start a timer, cancelled ones stop it.
type Watcher struct {
	getter   Getter
	clock    appointment.Clock
	interval time.Duration
	notifier notify.Sink
	logger   *zap.Logger

	mu      sync.Mutex
	timers  map[uuid.UUID]*Timer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
}

func NewWatcher(getter Getter, clock appointment.Clock, interval time.Duration, notifier notify.Sink, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		getter:   getter,
		clock:    clock,
		interval: interval,
		notifier: notifier,
		logger:   logger.Named("countdown"),
		timers:   make(map[uuid.UUID]*Timer),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Watch starts (or restarts) the timer for appt. Appointments that are
// already past are ignored. The first tick runs outside the watcher lock.
func (w *Watcher) Watch(appt appointment.Appointment) {
	if appointment.Classify(appt, w.clockNow()) != appointment.ClassActive {
		return
	}

	id := appt.ID
	timer := NewTimer(appt, w.clock, w.interval, w.notifier, func(st State) {
		w.logger.Debug("countdown",
			zap.String("appointment_id", id.String()),
			zap.String("label", st.Label),
			zap.Float64("progress", st.Progress),
		)
	})

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	previous := w.timers[id]
	w.timers[id] = timer
	w.mu.Unlock()

	if previous != nil {
		previous.Dismiss()
	}
	timer.Start(w.ctx)

	go func() {
		<-timer.Done()
		w.mu.Lock()
		if w.timers[id] == timer {
			delete(w.timers, id)
		}
		w.mu.Unlock()
	}()
}

// Unwatch dismisses the timer for id, if any.
func (w *Watcher) Unwatch(id uuid.UUID) {
	w.mu.Lock()
	timer, ok := w.timers[id]
	delete(w.timers, id)
	w.mu.Unlock()

	if ok {
		timer.Dismiss()
	}
}

func (w *Watcher) Notify(ctx context.Context, n notify.Notification) {
	if n.AppointmentID == nil {
		return
	}

	switch n.Event {
	case notify.EventAppointmentBooked:
		appt, err := w.getter.GetAppointmentByID(ctx, *n.AppointmentID)
		if err != nil {
			w.logger.Warn("cannot watch appointment", zap.String("appointment_id", n.AppointmentID.String()), zap.Error(err))
			return
		}
		w.Watch(*appt)
	case notify.EventAppointmentCancelled:
		w.Unwatch(*n.AppointmentID)
	}
}

// Active reports how many timers are running.
func (w *Watcher) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.timers)
}

// Stop dismisses every timer and refuses new ones.
func (w *Watcher) Stop() {
	w.mu.Lock()
	w.stopped = true
	timers := w.timers
	w.timers = make(map[uuid.UUID]*Timer)
	w.mu.Unlock()

	for _, t := range timers {
		t.Dismiss()
	}
	w.cancel()
}

func (w *Watcher) clockNow() time.Time {
	if w.clock == nil {
		return time.Now()
	}
	return w.clock.Now()
}
