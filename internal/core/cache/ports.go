package cache

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Cache defines the key-value operations interface following hexagonal architecture.
// This is a port that can be implemented by different providers (Redis, REST KV, etc.).
type Cache interface {
	// Get retrieves a value by key.
	// Returns an error wrapping ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Ping checks if the service is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
