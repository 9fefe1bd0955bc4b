package opslock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/opensearch-operator/pkg/opslock"
)

func TestConnectInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := opslock.Connect(context.Background(), opslock.Config{
		ConnectionURL:  "not-a-redis-url",
		ConnectTimeout: time.Second,
	})
	assert.ErrorIs(t, err, opslock.ErrFailedToParseRedisConnString)
}

// TestRedisLocker runs against a real redis when REDIS_URL is set.
func TestRedisLocker(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := opslock.Connect(ctx, opslock.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, opslock.Healthcheck(client)(ctx))

	key := "opslock-test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, key) })
	l := opslock.NewRedisLocker(client, key, time.Minute)

	ok, err := l.Acquire(ctx, "opensearch-0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Acquire(ctx, "opensearch-0")
	require.NoError(t, err)
	assert.True(t, ok, "re-entrant")

	ok, err = l.Acquire(ctx, "opensearch-1")
	require.NoError(t, err)
	assert.False(t, ok)

	holder, err := l.Holder(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opensearch-0", holder)

	assert.ErrorIs(t, l.Release(ctx, "opensearch-1"), opslock.ErrNotHolder)
	require.NoError(t, l.Release(ctx, "opensearch-0"))
	require.NoError(t, l.Release(ctx, "opensearch-0"))

	holder, err = l.Holder(ctx)
	require.NoError(t, err)
	assert.Empty(t, holder)
}
