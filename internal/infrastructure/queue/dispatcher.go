package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/smallplatform/personnel-api/internal/api/metrics"
	"github.com/smallplatform/personnel-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher fans successful-login events out to a fixed set of workers using
// consistent hashing on the user id, so one user's events keep their order in
// the recent-logins feed.
type Dispatcher struct {
	workers  []chan ports.LoginEvent
	recorder ports.LoginRecorder
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recorder ports.LoginRecorder, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.LoginEvent, numWorkers),
		recorder: recorder,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.LoginEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its user id. When that
// worker's buffer is full the event is dropped and counted: the feed is
// best-effort telemetry and a login must never block behind it.
func (d *Dispatcher) Enqueue(event ports.LoginEvent) {
	idx := d.shardIndex(event.UserID)
	select {
	case d.workers[idx] <- event:
		metrics.LoginFeedQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.LoginFeedErrorsTotal.WithLabelValues("queue_full").Inc()
		d.log.Warn().Str("user_id", event.UserID).Msg("login feed queue full, event dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.LoginEvent) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.LoginFeedQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.recorder.Record(ctx, event); err != nil {
				metrics.LoginFeedErrorsTotal.WithLabelValues("record_failed").Inc()
				d.log.Error().Err(err).
					Str("user_id", event.UserID).
					Int("worker_id", id).
					Msg("login event recording failed")
			}
		}
	}
}
