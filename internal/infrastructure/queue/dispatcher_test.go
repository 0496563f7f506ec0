package queue

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

type collector struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (c *collector) Record(_ context.Context, e domain.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *collector) snapshot() []domain.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ActivityEvent(nil), c.events...)
}

func TestDispatcher_DeliversInOrderPerSubject(t *testing.T) {
	sink := &collector{}
	d := NewDispatcher(3, sink, zerolog.Nop())
	d.Start(t.Context())

	for i := range 50 {
		subject := int64(i%5 + 1)
		require.NoError(t, d.Record(t.Context(), domain.ActivityEvent{
			SubjectID: subject,
			Metadata:  map[string]string{"seq": strconv.Itoa(i)},
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	got := sink.snapshot()
	require.Len(t, got, 50)

	last := map[int64]int{}
	for _, e := range got {
		seq, err := strconv.Atoi(e.Metadata["seq"])
		require.NoError(t, err)
		if prev, ok := last[e.SubjectID]; ok {
			assert.Greater(t, seq, prev, "subject %d out of order", e.SubjectID)
		}
		last[e.SubjectID] = seq
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, ports.NopActivitySink{}, zerolog.Nop())

	for _, id := range []int64{0, 1, 42, 1 << 40} {
		idx := d.shardIndex(id)
		assert.Equal(t, idx, d.shardIndex(id))
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, ports.NopActivitySink{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	// Workers are never started, so the single channel fills up.
	d := NewDispatcher(1, ports.NopActivitySink{}, zerolog.Nop())

	for range channelBuffer {
		require.NoError(t, d.Record(t.Context(), domain.ActivityEvent{SubjectID: 1}))
	}
	err := d.Record(t.Context(), domain.ActivityEvent{SubjectID: 1})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDispatcher_RecordAfterStop(t *testing.T) {
	d := NewDispatcher(2, ports.NopActivitySink{}, zerolog.Nop())
	d.Start(t.Context())
	require.NoError(t, d.Stop(t.Context()))

	err := d.Record(t.Context(), domain.ActivityEvent{SubjectID: 1})
	assert.ErrorIs(t, err, ErrDispatcherStopped)
	// A second Stop is harmless.
	assert.NoError(t, d.Stop(t.Context()))
}

func TestDispatcher_SinkErrorDoesNotStopWorker(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	sink := ports.ActivitySinkFunc(func(context.Context, domain.ActivityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return errors.New("redis down")
		}
		return nil
	})
	d := NewDispatcher(1, sink, zerolog.Nop())
	d.Start(t.Context())

	require.NoError(t, d.Record(t.Context(), domain.ActivityEvent{SubjectID: 1}))
	require.NoError(t, d.Record(t.Context(), domain.ActivityEvent{SubjectID: 1}))
	require.NoError(t, d.Stop(t.Context()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
