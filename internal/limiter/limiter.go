// Package limiter implements a fixed-window request limiter on top of redis.
// The server uses it to throttle plaintext handoffs per user.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/redis/go-redis/v9"
)

var ErrInvalidLimit = errors.New("limiter requests and window must be positive")

// window increments the counter of KEYS[1], starts its expiry on the first
// hit and returns the counter together with the remaining TTL in ms.
var window = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// Decision is the answer of [Limiter.Allow].
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long until the current window ends.
	RetryAfter time.Duration
}

// Limiter decides whether one more request for a key fits in the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type redisLimiter struct {
	client   redis.Scripter
	prefix   string
	requests int
	window   time.Duration
}

// NewRedisLimiter allows requests hits per key in every window.
func NewRedisLimiter(client redis.Scripter, requests int, window time.Duration) (Limiter, error) {
	if requests <= 0 || window <= 0 {
		return nil, ErrInvalidLimit
	}

	return &redisLimiter{
		client:   client,
		prefix:   "ratelimit:",
		requests: requests,
		window:   window,
	}, nil
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := window.Run(ctx, l.client, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	current, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = l.window
	}

	return Decision{
		Allowed:    current <= l.requests,
		Limit:      l.requests,
		Remaining:  max(l.requests-current, 0),
		RetryAfter: ttl,
	}, nil
}

// NewRedisClient connects to the redis named by cfg and pings it.
func NewRedisClient(ctx context.Context, cfg config.Limiter) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
