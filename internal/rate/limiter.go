package rate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the tuning parameters for one limiter instance.
type Config struct {
	// KeyPrefix is prepended verbatim to every counter key, e.g.
	// "rate_limit:failed_login:".
	KeyPrefix string
	// Threshold is the number of attempts permitted inside one window.
	Threshold int
	// Window is the counter TTL, set when the first attempt is recorded and
	// never refreshed afterwards.
	Window time.Duration
	// FailClosed inverts the availability policy: Check denies instead of
	// allowing when Redis is unreachable.
	FailClosed bool
}

// Result is the read-only outcome of a Check call. FailedOpen marks results
// produced while Redis was unreachable, for observability only.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetIn    time.Duration
	FailedOpen bool
}

// Limiter enforces a fixed-window attempt budget per key using Redis
// counters. Two independent instances cover the normalized-email and the
// client-IP scopes; the algorithm is identical, only Config differs.
type Limiter struct {
	redis redis.UniversalClient
	cfg   Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis: redisClient,
		cfg:   cfg,
	}
}

// Check reports whether key is within its attempt budget. It never
// increments. Redis failures are absorbed according to the availability
// policy and never surface to the caller.
func (l *Limiter) Check(ctx context.Context, key string) Result {
	pipe := l.redis.Pipeline()
	getCmd := pipe.Get(ctx, l.counterKey(key))
	ttlCmd := pipe.TTL(ctx, l.counterKey(key))
	_, err := pipe.Exec(ctx)

	if err != nil && !errors.Is(err, redis.Nil) {
		return l.unavailable("check", err)
	}

	count, err := getCmd.Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Result{Allowed: true, Remaining: l.cfg.Threshold}
		}
		return l.unavailable("check", err)
	}
	if count < 0 {
		count = 0
	}

	remaining := l.cfg.Threshold - int(count)
	if remaining < 0 {
		remaining = 0
	}

	resetIn := ttlCmd.Val()
	if resetIn < 0 {
		resetIn = 0
	}

	return Result{
		Allowed:   int(count) < l.cfg.Threshold,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// Record counts one attempt against key. Fixed-window semantics: the TTL is
// set only when the post-increment count is 1, so later attempts never
// extend the window. Redis failures make Record a logged no-op.
func (l *Limiter) Record(ctx context.Context, key string) {
	count, err := l.redis.Incr(ctx, l.counterKey(key)).Result()
	if err != nil {
		l.warn("record", err)
		return
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, l.counterKey(key), l.cfg.Window).Err(); err != nil {
			l.warn("record", err)
		}
	}
}

// Reset deletes the counter for key. Called after a successful credential
// login to clear the email-scoped budget; the IP counter tracks aggregate
// abuse and is never reset by success. Redis failures make Reset a logged
// no-op.
func (l *Limiter) Reset(ctx context.Context, key string) {
	if err := l.redis.Del(ctx, l.counterKey(key)).Err(); err != nil {
		l.warn("reset", err)
	}
}

func (l *Limiter) counterKey(key string) string {
	return l.cfg.KeyPrefix + key
}

func (l *Limiter) unavailable(op string, err error) Result {
	l.warn(op, err)
	if l.cfg.FailClosed {
		return Result{Allowed: false, FailedOpen: true}
	}
	return Result{Allowed: true, Remaining: l.cfg.Threshold, FailedOpen: true}
}

func (l *Limiter) warn(op string, err error) {
	log.Printf("authcore: rate limiter %s skipped for %q keys: %v", op, l.cfg.KeyPrefix,
		fmt.Errorf("%w: %v", ErrRedisUnavailable, err))
}
