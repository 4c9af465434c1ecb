package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Execer is the subset of pgxpool.Pool used by EventSink.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EventSink appends every notification to the event_logs table. Insert
// failures are logged and swallowed.
type EventSink struct {
	db      Execer
	logger  *zap.Logger
	timeout time.Duration
}

func NewEventSink(db Execer, logger *zap.Logger) *EventSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventSink{
		db:      db,
		logger:  logger.Named("event_sink"),
		timeout: 2 * time.Second,
	}
}

func (s *EventSink) Notify(ctx context.Context, n Notification) {
	data, err := json.Marshal(n.Payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload", zap.String("event", n.Event), zap.Error(err))
		data = nil
	}

	insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	_, err = s.db.Exec(insertCtx, `
		INSERT INTO event_logs (event_type, appointment_id, level, message, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
	`, n.Event, n.AppointmentID, string(n.Level), n.Message, data, nullableTime(n.CreatedAt))
	if err != nil {
		s.logger.Error("failed to insert event log",
			zap.String("event", n.Event),
			zap.Error(err),
		)
	}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
