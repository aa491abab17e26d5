package storage

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/verkhov/picvault/internal/logging"
)

// Deleter is the slice of the object store the cleaner needs.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

const (
	cleanupQueueSize  = 64
	cleanupMaxRetries = 5
)

// Cleaner releases external assets after their metadata records are gone.
// Deletion is best-effort and decoupled from the request that removed the
// record: keys are queued, retried with backoff, and failures are logged
// rather than surfaced.
type Cleaner struct {
	store  Deleter
	logger logging.Logger
	queue  chan string
}

func NewCleaner(store Deleter, logger logging.Logger) *Cleaner {
	return &Cleaner{
		store:  store,
		logger: logger.With("module", "asset_cleaner"),
		queue:  make(chan string, cleanupQueueSize),
	}
}

// Enqueue schedules the asset under key for deletion. It never blocks the
// caller: if the queue is full the key is dropped and logged.
func (c *Cleaner) Enqueue(key string) {
	if key == "" {
		return
	}
	select {
	case c.queue <- key:
	default:
		c.logger.Warn(context.Background(), "cleanup queue full, dropping asset", "key", key)
	}
}

// Run consumes the queue until ctx is cancelled, deleting each asset with
// fibonacci backoff.
func (c *Cleaner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case key := <-c.queue:
			c.deleteWithRetry(ctx, key)
		}
	}
}

func (c *Cleaner) deleteWithRetry(ctx context.Context, key string) {
	backoff := retry.WithMaxRetries(cleanupMaxRetries, retry.NewFibonacci(100*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.store.Delete(ctx, key); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		c.logger.Error(ctx, "failed to delete asset", "key", key, "error", err.Error())
		return
	}

	c.logger.Debug(ctx, "asset deleted", "key", key)
}
