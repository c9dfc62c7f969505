package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"ataka-storefront/internal/domain"
)

var (
	ErrQueueFull    = errors.New("sync queue full")
	ErrOutboxClosed = errors.New("sync outbox closed")
)

// Syncer pushes a cart snapshot to the remote account.
type Syncer interface {
	SyncCart(ctx context.Context, userID string, items []domain.SyncItem) error
}

// SyncFailure records one abandoned sync attempt. Attempts are never retried.
type SyncFailure struct {
	UserID string            `json:"userId"`
	Items  []domain.SyncItem `json:"items"`
	Err    string            `json:"error"`
	At     time.Time         `json:"at"`
}

type syncJob struct {
	userID string
	items  []domain.SyncItem
}

// Outbox delivers cart snapshots in the background, one at a time, in
// publish order. Publish never blocks.
type Outbox struct {
	syncer  Syncer
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time

	queue  chan syncJob
	wg     sync.WaitGroup
	sendMu sync.RWMutex
	closed bool

	mu       sync.Mutex
	failures []SyncFailure
}

func NewOutbox(syncer Syncer, queueSize int, timeout time.Duration, logger *zap.Logger) *Outbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	o := &Outbox{
		syncer:  syncer,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
		queue:   make(chan syncJob, queueSize),
	}
	o.wg.Add(1)
	go o.run()
	return o
}

// Publish enqueues a snapshot. A full or closed outbox records a failure instead.
func (o *Outbox) Publish(userID string, items []domain.SyncItem) {
	job := syncJob{userID: userID, items: items}
	o.sendMu.RLock()
	defer o.sendMu.RUnlock()
	if o.closed {
		o.fail(job, ErrOutboxClosed)
		return
	}
	select {
	case o.queue <- job:
	default:
		o.fail(job, ErrQueueFull)
	}
}

// Failures returns a copy of the failure log.
func (o *Outbox) Failures() []SyncFailure {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]SyncFailure, len(o.failures))
	copy(out, o.failures)
	return out
}

// Close stops accepting snapshots, delivers what is queued and waits for the worker.
func (o *Outbox) Close() {
	o.sendMu.Lock()
	if o.closed {
		o.sendMu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.sendMu.Unlock()
	o.wg.Wait()
}

func (o *Outbox) run() {
	defer o.wg.Done()
	for job := range o.queue {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		err := o.syncer.SyncCart(ctx, job.userID, job.items)
		cancel()
		if err != nil {
			o.fail(job, err)
			continue
		}
		o.logger.Debug("cart synced", zap.String("user_id", job.userID), zap.Int("items", len(job.items)))
	}
}

func (o *Outbox) fail(job syncJob, err error) {
	o.logger.Warn("cart sync failed", zap.String("user_id", job.userID), zap.Int("items", len(job.items)), zap.Error(err))
	o.mu.Lock()
	o.failures = append(o.failures, SyncFailure{
		UserID: job.userID,
		Items:  job.items,
		Err:    err.Error(),
		At:     o.now(),
	})
	o.mu.Unlock()
}
