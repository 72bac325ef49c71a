//go:build integration

package locks

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisLocker(t *testing.T) {
	client := newRedisClient(t)
	l := NewRedisLockerFromClient(client, 2*time.Second)
	t.Cleanup(func() { _ = l.Close() })
	ctx := context.Background()

	require.NoError(t, l.HealthCheck(ctx))

	unlock, err := l.Lock(ctx, "user-1")
	require.NoError(t, err)

	busy, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Lock(busy, "user-1")
	require.ErrorIs(t, err, ErrNotAcquired)

	unlock()

	exists, err := client.Exists(ctx, keyPrefix+"user-1").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	unlock, err = l.Lock(ctx, "user-1")
	require.NoError(t, err)
	unlock()
}

func TestRedisLockerExpiredLockIsNotStolenBack(t *testing.T) {
	client := newRedisClient(t)
	short := NewRedisLockerFromClient(client, 50*time.Millisecond)
	long := NewRedisLockerFromClient(client, 5*time.Second)
	ctx := context.Background()

	unlockFirst, err := short.Lock(ctx, "k")
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	unlockSecond, err := long.Lock(ctx, "k")
	require.NoError(t, err)

	// The first holder's lease expired; releasing it must not drop the second lease
	unlockFirst()
	exists, err := client.Exists(ctx, keyPrefix+"k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	unlockSecond()
}
