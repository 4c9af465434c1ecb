package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const (
	EventAppointmentBooked    = "APPOINTMENT_BOOKED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventBookingRejected      = "BOOKING_REJECTED"
	EventAppointmentDue       = "APPOINTMENT_DUE"
)

type Notification struct {
	Level         Level
	Event         string
	Message       string
	AppointmentID *uuid.UUID
	Payload       map[string]any
	CreatedAt     time.Time
}

// Sink receives fire-and-forget notifications. Implementations must not
// block the caller on delivery failures.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(ctx, n)
		}
	}
}

// LogSink writes notifications to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("notify")}
}

func (s *LogSink) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{
		zap.String("level", string(n.Level)),
		zap.String("event", n.Event),
	}
	if n.AppointmentID != nil {
		fields = append(fields, zap.String("appointment_id", n.AppointmentID.String()))
	}
	if len(n.Payload) > 0 {
		fields = append(fields, zap.Any("payload", n.Payload))
	}

	if n.Level == LevelError {
		s.logger.Warn(n.Message, fields...)
		return
	}
	s.logger.Info(n.Message, fields...)
}

// Recorder buffers up to size notifications in memory and drops the rest.
type Recorder struct {
	ch chan Notification
}

func NewRecorder(size int) *Recorder {
	return &Recorder{ch: make(chan Notification, size)}
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	select {
	case r.ch <- n:
	default:
	}
}

// Drain returns everything recorded so far.
func (r *Recorder) Drain() []Notification {
	var out []Notification
	for {
		select {
		case n := <-r.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}
