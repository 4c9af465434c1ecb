package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-booking/internal/metrics"
	"github.com/hackgods/clinic-booking/internal/notify"
	redisclient "github.com/hackgods/clinic-booking/internal/redis"
	"github.com/hackgods/clinic-booking/internal/slot"
)

const (
	MessageBooked        = "Appointment booked successfully!"
	MessageCancelled     = "Appointment cancelled successfully!"
	MessageSlotTaken     = "That time slot has just been booked, please choose another"
	MessageUnknownSlot   = "Please choose one of the available time slots"
	MessageBookingFailed = "Something went wrong while booking, please try again"
)

var (
	ErrSlotTaken       = errors.New("slot already has a scheduled appointment")
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
	ErrUnknownSlot     = errors.New("unknown time slot")
)

type ServiceOptions struct {
	Notifier notify.Sink
	Metrics  *metrics.BookingMetrics
	Clock    Clock
	Logger   *zap.Logger
}

type Service struct {
	store    Store
	resolver *Resolver
	locker   redisclient.Locker
	notifier notify.Sink
	metrics  *metrics.BookingMetrics
	clock    Clock
	logger   *zap.Logger
}

func NewService(store Store, locker redisclient.Locker, opts ServiceOptions) *Service {
	s := &Service{
		store:    store,
		resolver: NewResolver(),
		locker:   locker,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
	if s.locker == nil {
		s.locker = redisclient.NewLocalSlotLocker()
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.clock == nil {
		s.clock = SystemClock
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *Service) Clock() Clock { return s.clock }

func (s *Service) Resolver() *Resolver { return s.resolver }

// Book commits a new appointment. The (date, slot) pair is re-checked inside a
// slot lock so two sessions that both saw the slot free cannot both book it.
func (s *Service) Book(ctx context.Context, req Request) (*Appointment, error) {
	start := time.Now()

	if !s.resolver.Known(req.TimeSlotID) {
		s.metrics.ObserveCommit("invalid", time.Since(start).Seconds())
		s.reject(ctx, req, MessageUnknownSlot, "unknown_slot")
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, req.TimeSlotID)
	}

	req.Date = slot.DateOf(req.Date)
	var created *Appointment

	err := s.locker.WithSlotLock(ctx, redisclient.SlotKey(req.Date, req.TimeSlotID), func(lockCtx context.Context) error {
		existing, err := s.store.FindScheduled(lockCtx, req.Date, req.TimeSlotID)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check scheduled appointment: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt, err := s.store.Create(lockCtx, req)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		created = appt
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		err = ErrSlotBeingBooked
		fallthrough
	case errors.Is(err, ErrSlotTaken):
		s.metrics.ObserveCommit("conflict", time.Since(start).Seconds())
		s.reject(ctx, req, MessageSlotTaken, "conflict")
		return nil, err
	default:
		s.metrics.ObserveCommit("error", time.Since(start).Seconds())
		s.logger.Error("book appointment failed", zap.String("slot_id", req.TimeSlotID), zap.Error(err))
		s.reject(ctx, req, MessageBookingFailed, "error")
		return nil, err
	}

	s.metrics.ObserveCommit("booked", time.Since(start).Seconds())
	s.logger.Info("appointment booked",
		zap.String("appointment_id", created.ID.String()),
		zap.String("date", created.Date.Format(slot.DateLayout)),
		zap.String("slot_id", created.TimeSlotID),
	)

	id := created.ID
	s.notifier.Notify(ctx, notify.Notification{
		Level:         notify.LevelSuccess,
		Event:         notify.EventAppointmentBooked,
		Message:       MessageBooked,
		AppointmentID: &id,
		Payload: map[string]any{
			"treatment_id": created.TreatmentID,
			"location_id":  created.LocationID,
			"date":         created.Date.Format(slot.DateLayout),
			"slot_id":      created.TimeSlotID,
		},
		CreatedAt: s.clock.Now(),
	})

	return created, nil
}

// reject raises the error notification for a booking that did not go through.
func (s *Service) reject(ctx context.Context, req Request, message, reason string) {
	s.notifier.Notify(ctx, notify.Notification{
		Level:   notify.LevelError,
		Event:   notify.EventBookingRejected,
		Message: message,
		Payload: map[string]any{
			"date":    req.Date.Format(slot.DateLayout),
			"slot_id": req.TimeSlotID,
			"reason":  reason,
		},
		CreatedAt: s.clock.Now(),
	})
}

// Cancel marks an appointment cancelled, freeing its slot. Cancelling an
// already cancelled appointment succeeds without a second notification.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	updated, previous, err := s.store.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			s.metrics.ObserveCancel("not_found")
			return nil, err
		}
		s.metrics.ObserveCancel("error")
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	if previous == StatusCancelled {
		s.metrics.ObserveCancel("already_cancelled")
		return updated, nil
	}

	s.metrics.ObserveCancel("cancelled")
	s.logger.Info("appointment cancelled", zap.String("appointment_id", id.String()))
	s.notifier.Notify(ctx, notify.Notification{
		Level:         notify.LevelSuccess,
		Event:         notify.EventAppointmentCancelled,
		Message:       MessageCancelled,
		AppointmentID: &id,
		Payload: map[string]any{
			"date":    updated.Date.Format(slot.DateLayout),
			"slot_id": updated.TimeSlotID,
		},
		CreatedAt: s.clock.Now(),
	})

	return updated, nil
}

// AvailableSlots resolves the template against every stored appointment.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) ([]slot.Availability, error) {
	appts, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	s.metrics.ObserveAvailability()
	return s.resolver.AvailableSlots(date, appts), nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.store.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// Grouped splits all appointments into active and past using a fresh reading
// of the clock.
func (s *Service) Grouped(ctx context.Context) (Groups, time.Time, error) {
	appts, err := s.store.ListAppointments(ctx)
	if err != nil {
		return Groups{}, time.Time{}, fmt.Errorf("list appointments: %w", err)
	}
	now := s.clock.Now()
	return Group(appts, now), now, nil
}
