package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

const (
	DefaultActivityStream = "marketplace:activity"
	streamMaxLen          = 10000
)

// ActivityStream appends activity events to a capped Redis stream.
// Entries are trimmed approximately once the stream exceeds streamMaxLen.
type ActivityStream struct {
	client redis.Cmdable
	stream string
}

// NewActivityStream creates an ActivityStream writing to stream.
func NewActivityStream(client redis.Cmdable, stream string) *ActivityStream {
	if stream == "" {
		stream = DefaultActivityStream
	}
	return &ActivityStream{client: client, stream: stream}
}

// Record implements ports.ActivitySink.
func (s *ActivityStream) Record(ctx context.Context, event domain.ActivityEvent) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: streamValues(event),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// streamValues flattens an event into stream fields. Metadata keys are
// prefixed with "meta." so they cannot shadow the fixed fields.
func streamValues(e domain.ActivityEvent) map[string]any {
	v := map[string]any{
		"id":          e.ID,
		"type":        string(e.Type),
		"actor_id":    strconv.FormatInt(e.ActorID, 10),
		"subject_id":  strconv.FormatInt(e.SubjectID, 10),
		"resource":    e.Resource,
		"occurred_at": e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
	if e.FromStatus != "" {
		v["from_status"] = string(e.FromStatus)
	}
	if e.ToStatus != "" {
		v["to_status"] = string(e.ToStatus)
	}
	for k, val := range e.Metadata {
		v["meta."+k] = val
	}
	return v
}
