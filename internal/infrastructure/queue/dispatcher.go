package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/koptay/client-portal/internal/api/metrics"
	"github.com/koptay/client-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Deduper suppresses repeat deliveries of the same notification.
type Deduper interface {
	IsDuplicate(ctx context.Context, userID int64, title, message string) (bool, error)
	Mark(ctx context.Context, userID int64, title, message string) error
}

// Dispatcher fans notifications out to a fixed set of workers using consistent
// hashing on the recipient ID, so each user's notifications arrive in the
// order they were queued. It is the ports.Notifier the services write to.
type Dispatcher struct {
	workers []chan ports.NotificationInput
	service ports.NotificationService
	users   ports.UserRepository
	dedup   Deduper
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, users ports.UserRepository, dedup Deduper, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationInput, numWorkers),
		service: service,
		users:   users,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues a notification for one user.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Notify(input ports.NotificationInput) {
	d.workers[d.shardIndex(input.UserID)] <- input
}

// NotifyStaff queues a copy of the notification for every active staff
// account. Failing to resolve the staff list drops the fan-out with a log
// line; client-facing work must not fail on it.
func (d *Dispatcher) NotifyStaff(ctx context.Context, input ports.NotificationInput) {
	staff, err := d.users.ListStaff(ctx)
	if err != nil {
		d.log.Error().Err(err).Str("title", input.Title).Msg("staff fan-out failed")
		return
	}
	for _, member := range staff {
		copy := input
		copy.UserID = member.ID
		d.Notify(copy)
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, input)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, input ports.NotificationInput) {
	if d.dedup != nil {
		dup, err := d.dedup.IsDuplicate(ctx, input.UserID, input.Title, input.Message)
		if err != nil {
			// Dedup is advisory: deliver anyway when Redis is unreachable.
			d.log.Warn().Err(err).Int64("user_id", input.UserID).Msg("dedup check failed")
		} else if dup {
			metrics.NotificationsDedupTotal.WithLabelValues("suppressed").Inc()
			return
		}
	}

	if err := d.service.Deliver(ctx, input); err != nil {
		d.log.Error().Err(err).
			Int64("user_id", input.UserID).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
		return
	}

	if d.dedup != nil {
		if err := d.dedup.Mark(ctx, input.UserID, input.Title, input.Message); err != nil {
			d.log.Warn().Err(err).Int64("user_id", input.UserID).Msg("dedup mark failed")
		}
		metrics.NotificationsDedupTotal.WithLabelValues("delivered").Inc()
	}
}
