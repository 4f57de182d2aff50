package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return mr, adapter
}

func TestRedisAdapter_GetSet(t *testing.T) {
	_, adapter := newTestRedis(t)
	ctx := context.Background()

	err := adapter.Set(ctx, "tracking-map", []byte(`{"9876543210":["111"]}`), 0)
	require.NoError(t, err)

	got, err := adapter.Get(ctx, "tracking-map")
	require.NoError(t, err)
	assert.Equal(t, `{"9876543210":["111"]}`, string(got))
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	_, adapter := newTestRedis(t)

	_, err := adapter.Get(context.Background(), "non_existent_key")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisAdapter_TTL(t *testing.T) {
	mr, adapter := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "ttl_test", []byte("expires_soon"), time.Second))

	_, err := adapter.Get(ctx, "ttl_test")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, "ttl_test")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisAdapter_Ping(t *testing.T) {
	_, adapter := newTestRedis(t)
	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_PingUnreachable(t *testing.T) {
	mr, adapter := newTestRedis(t)
	mr.Close()

	err := adapter.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestRedisAdapter_WithTimeout(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://"+mr.Addr(), WithRedisTimeout(3*time.Second))
	require.NoError(t, err)
	defer adapter.Close()

	opts := adapter.client.Options()
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
	assert.Equal(t, 3*time.Second, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)

	require.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_ZeroTimeoutKeepsDefaults(t *testing.T) {
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://"+mr.Addr(), WithRedisTimeout(0))
	require.NoError(t, err)
	defer adapter.Close()

	assert.Equal(t, 5*time.Second, adapter.client.Options().DialTimeout)
}
