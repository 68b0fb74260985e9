package datelock

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	rdb := startRedis(t)
	log := logrus.NewEntry(logrus.New())

	a := NewRedisLocker(rdb, log, "test", 5*time.Second)
	b := NewRedisLocker(rdb, log, "test", 5*time.Second)

	unlock, err := a.Lock(context.Background(), "2026-01-28")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = b.Lock(ctx, "2026-01-28")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	u2, err := b.Lock(ctx2, "2026-01-28")
	require.NoError(t, err)
	u2()

	require.NoError(t, a.Ping(context.Background()))
}

func TestRedisLocker_ReleaseOnlyOwnToken(t *testing.T) {
	rdb := startRedis(t)
	l := NewRedisLocker(rdb, logrus.NewEntry(logrus.New()), "test", 50*time.Millisecond)

	stale, err := l.Lock(context.Background(), "2026-01-28")
	require.NoError(t, err)

	// a trava expira e outro dono assume
	time.Sleep(100 * time.Millisecond)
	owner, err := l.Lock(context.Background(), "2026-01-28")
	require.NoError(t, err)

	stale()
	exists, err := rdb.Exists(context.Background(), "test:2026-01-28").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "a stale unlock must not free another owner's lock")

	owner()
}
