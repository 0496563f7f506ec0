// Package queue delivers activity events asynchronously so that request
// handling never waits on the activity stream.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/elmdemo/marketplace/internal/api/metrics"
	"github.com/elmdemo/marketplace/internal/core/domain"
	"github.com/elmdemo/marketplace/internal/core/ports"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 256
	deliveryTimeout = 5 * time.Second
)

var (
	ErrQueueFull         = errors.New("activity queue full")
	ErrDispatcherStopped = errors.New("activity dispatcher stopped")
)

// Dispatcher implements ports.ActivitySink by routing events to a fixed set of
// workers using consistent hashing on the subject id, which keeps the events
// of one account or product in order.
type Dispatcher struct {
	workers []chan domain.ActivityEvent
	sink    ports.ActivitySink
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers that
// forward to sink. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.ActivitySink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues the event without blocking. A full worker channel drops the
// event and returns ErrQueueFull.
func (d *Dispatcher) Record(_ context.Context, event domain.ActivityEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.ActivityDeliveriesTotal.WithLabelValues("dropped").Inc()
		return ErrDispatcherStopped
	}

	idx := d.shardIndex(event.SubjectID)
	ch := d.workers[idx]
	select {
	case ch <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(ch)))
		return nil
	default:
		metrics.ActivityDeliveriesTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Stop refuses new events and waits for the workers to drain what is queued.
// It returns ctx.Err() if the drain does not finish in time.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *Dispatcher) shardIndex(subjectID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(subjectID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, event domain.ActivityEvent) {
	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	if err := d.sink.Record(ctx, event); err != nil {
		metrics.ActivityDeliveriesTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Int64("subject_id", event.SubjectID).
			Int("worker_id", worker).
			Msg("activity delivery failed")
		return
	}
	metrics.ActivityDeliveriesTotal.WithLabelValues("ok").Inc()
}
