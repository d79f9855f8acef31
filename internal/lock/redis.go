package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RedisOptions tunes the distributed mutex.
type RedisOptions struct {
	// Expiry bounds how long a crashed holder can block others.
	Expiry time.Duration

	// Tries is the number of acquisition attempts before giving up.
	Tries int

	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
}

// DefaultRedisOptions returns the options used when none are configured.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Expiry:     10 * time.Second,
		Tries:      32,
		RetryDelay: 50 * time.Millisecond,
	}
}

// Redis is a Locker backed by the Redlock algorithm, for deployments
// running more than one server against the same database.
type Redis struct {
	rs     *redsync.Redsync
	opts   RedisOptions
	logger *slog.Logger
}

var _ Locker = (*Redis)(nil)

// NewRedis creates a distributed locker on top of an existing client.
func NewRedis(client redis.UniversalClient, opts RedisOptions, logger *slog.Logger) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if opts.Expiry <= 0 {
		return nil, fmt.Errorf("lock expiry must be greater than 0")
	}
	if opts.Tries < 1 {
		return nil, fmt.Errorf("lock tries must be at least 1")
	}
	if opts.RetryDelay < 0 {
		return nil, fmt.Errorf("lock retry delay cannot be negative")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Redis{
		rs:     redsync.New(goredis.NewPool(client)),
		opts:   opts,
		logger: logger,
	}, nil
}

// WithLock implements Locker.
func (r *Redis) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := validate(key, fn); err != nil {
		return err
	}

	mutex := r.rs.NewMutex(
		key,
		redsync.WithExpiry(r.opts.Expiry),
		redsync.WithTries(r.opts.Tries),
		redsync.WithRetryDelay(r.opts.RetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		r.logger.Warn("failed to acquire lock", "lock_key", key, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, err)
	}
	r.logger.Debug("lock acquired", "lock_key", key)

	defer func() {
		// Unlock must run even when ctx was cancelled during fn.
		unlockCtx := context.WithoutCancel(ctx)
		if ok, err := mutex.UnlockContext(unlockCtx); !ok || err != nil {
			r.logger.Error("failed to release lock", "lock_key", key, "unlock_ok", ok, "error", err)
		}
	}()

	return fn(ctx)
}
