package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

// Option configures optional collaborators of the services in this package.
type Option func(*options)

type options struct {
	now      func() time.Time
	activity ports.ActivitySink
}

func defaultOptions() options {
	return options{
		now:      func() time.Time { return time.Now().UTC() },
		activity: ports.NopActivitySink{},
	}
}

// WithClock overrides the time source used for timestamps and token issuance.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithActivitySink routes lifecycle events to sink.
func WithActivitySink(sink ports.ActivitySink) Option {
	return func(o *options) {
		if sink != nil {
			o.activity = sink
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// recorder stamps and forwards activity events. Sink failures never fail the
// operation that produced the event.
type recorder struct {
	sink   ports.ActivitySink
	now    func() time.Time
	logger zerolog.Logger
}

func (r recorder) record(ctx context.Context, event domain.ActivityEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = r.now()
	}
	if err := r.sink.Record(ctx, event); err != nil {
		r.logger.Warn().Err(err).
			Str("event_type", string(event.Type)).
			Int64("subject_id", event.SubjectID).
			Msg("failed to record activity event")
	}
}
