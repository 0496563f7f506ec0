package ports

import (
	"context"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

// ActivitySink consumes activity events for the audit trail.
type ActivitySink interface {
	Record(ctx context.Context, event domain.ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event domain.ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event domain.ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// NopActivitySink discards every event.
type NopActivitySink struct{}

func (NopActivitySink) Record(context.Context, domain.ActivityEvent) error { return nil }
