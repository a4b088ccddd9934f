package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, requests int, window time.Duration) (Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	l, err := NewRedisLimiter(client, requests, window)
	require.NoError(t, err)
	return l, mr
}

func TestRedisLimiter_Allow(t *testing.T) {
	l, mr := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	d, err = l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)

	d, err = l.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "keys are limited independently")

	mr.FastForward(time.Minute)

	d, err = l.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "a new window starts after expiry")
}

func TestRedisLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "user:1")
	assert.Error(t, err)
}

func TestNewRedisLimiter_InvalidLimit(t *testing.T) {
	_, err := NewRedisLimiter(nil, 0, time.Second)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewRedisLimiter(nil, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(context.Background(), config.Limiter{RedisAddress: addr})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	// после Close адрес больше никто не слушает
	mr.Close()
	_, err = NewRedisClient(context.Background(), config.Limiter{RedisAddress: addr})
	assert.Error(t, err)
}
