package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/appointment"
	"github.com/hackgods/clinic-booking/internal/notify"
)

var ErrSessionNotFound = errors.New("booking session not found")

type entry struct {
	mu        sync.Mutex
	session   Session
	updatedAt time.Time
}

// Registry holds open booking sessions by id. Each session is mutated under
// its own lock so one slow commit does not stall the others.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
	booker   Booker
	notifier notify.Sink
	clock    appointment.Clock
	logger   *zap.Logger
}

func NewRegistry(booker Booker, notifier notify.Sink, clock appointment.Clock, logger *zap.Logger) *Registry {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if clock == nil {
		clock = appointment.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[uuid.UUID]*entry),
		booker:   booker,
		notifier: notifier,
		clock:    clock,
		logger:   logger.Named("sessions"),
	}
}

// Open starts an empty session.
func (r *Registry) Open() uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	r.sessions[id] = &entry{updatedAt: r.clock.Now()}
	r.mu.Unlock()

	return id
}

func (r *Registry) lookup(id uuid.UUID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// Get returns a snapshot of the session draft.
func (r *Registry) Get(id uuid.UUID) (Session, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

// Update applies fn to the session draft and returns the result.
func (r *Registry) Update(id uuid.UUID, fn func(s *Session) error) (Session, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	draft := e.session
	if err := fn(&draft); err != nil {
		return e.session, err
	}
	e.session = draft
	e.updatedAt = r.clock.Now()
	return e.session, nil
}

// Commit books the session draft. Validation failures raise an error
// notification and leave everything untouched.
func (r *Registry) Commit(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	appt, err := e.session.Commit(ctx, r.booker)
	e.updatedAt = r.clock.Now()

	var verr *ValidationError
	if errors.As(err, &verr) {
		r.notifier.Notify(ctx, notify.Notification{
			Level:     notify.LevelError,
			Event:     notify.EventBookingRejected,
			Message:   verr.Message(),
			Payload:   map[string]any{"group": string(verr.Group), "missing": verr.Missing},
			CreatedAt: r.clock.Now(),
		})
		r.logger.Debug("commit rejected", zap.String("session_id", id.String()), zap.Strings("missing", verr.Missing))
	}
	return appt, err
}

func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// PruneIdle drops sessions untouched since before cutoff and reports how many
// were removed.
func (r *Registry) PruneIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.updatedAt.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
