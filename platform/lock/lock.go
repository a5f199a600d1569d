// Package lock provides the global batch-processing lock.
// All state-mutating batches are serialized behind a single Redis key; this
// is a deliberate simplification for a system with a handful of human
// operators, not a high-throughput design.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when the lock could not be taken within the
// bounded wait. Callers surface this as a retryable busy condition.
var ErrNotAcquired = errors.New("processing lock not acquired")

const defaultKey = "fieldservice:processing_lock"

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker acquires and releases the global processing lock.
type Locker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	wait   time.Duration
}

// Lease represents one held lock. Release is safe to call once.
type Lease struct {
	locker *Locker
	token  string
}

// New creates a Locker. ttl bounds how long a crashed holder can block the
// system; wait bounds how long an acquire attempt blocks before ErrNotAcquired.
func New(client *redis.Client, ttl, wait time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &Locker{client: client, key: defaultKey, ttl: ttl, wait: wait}
}

// Acquire takes the global lock, polling until the bounded wait elapses.
func (l *Locker) Acquire(ctx context.Context) (*Lease, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lease{locker: l, token: token}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// Release gives the lock back. Releasing a lease whose TTL already expired
// and was re-acquired elsewhere is a no-op.
func (le *Lease) Release(ctx context.Context) error {
	if le == nil || le.locker == nil {
		return nil
	}
	return releaseScript.Run(ctx, le.locker.client, []string{le.locker.key}, le.token).Err()
}
