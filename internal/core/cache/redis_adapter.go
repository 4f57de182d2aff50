package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter implements the Cache interface using Redis.
type RedisAdapter struct {
	client *redis.Client
}

// RedisOption customizes the client options parsed from the URL.
type RedisOption func(*redis.Options)

// WithRedisTimeout bounds dialing and every read and write.
func WithRedisTimeout(d time.Duration) RedisOption {
	return func(o *redis.Options) {
		if d <= 0 {
			return
		}
		o.DialTimeout = d
		o.ReadTimeout = d
		o.WriteTimeout = d
	}
}

// NewRedisAdapter creates a new Redis cache adapter.
// The redisURL should be in the format: redis[s]://[:password@]host[:port][/database]
func NewRedisAdapter(redisURL string, opts ...RedisOption) (*RedisAdapter, error) {
	o, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	for _, opt := range opts {
		opt(o)
	}

	return &RedisAdapter{client: redis.NewClient(o)}, nil
}

// Get retrieves a value from Redis by key.
func (r *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value in Redis with the specified TTL.
func (r *RedisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisAdapter) Close() error {
	return r.client.Close()
}
