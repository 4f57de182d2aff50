package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"courier-tracker/internal/core/cache"
	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"
)

// DefaultKVKey is the key holding the tracking map document.
const DefaultKVKey = "tracking-map"

// KVBackend implements ports.Backend on top of the key-value cache.
// The whole map is stored as one JSON document under a single key.
type KVBackend struct {
	cache cache.Cache
	key   string
}

// NewKVBackend creates a new KVBackend.
func NewKVBackend(c cache.Cache, key string) *KVBackend {
	if key == "" {
		key = DefaultKVKey
	}
	return &KVBackend{
		cache: c,
		key:   key,
	}
}

// Name implements ports.Backend.
func (b *KVBackend) Name() string { return "kv" }

// Read retrieves the map from the cache.
func (b *KVBackend) Read(ctx context.Context) (domain.TrackingMap, error) {
	data, err := b.cache.Get(ctx, b.key)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, ports.ErrNoDocument
		}
		return nil, fmt.Errorf("failed to get tracking map from kv: %w", err)
	}
	if len(data) == 0 {
		return nil, ports.ErrNoDocument
	}

	return domain.ParseTrackingMap(data)
}

// Write stores the map in the cache without expiration.
func (b *KVBackend) Write(ctx context.Context, m domain.TrackingMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal tracking map: %w", err)
	}

	if err := b.cache.Set(ctx, b.key, data, 0); err != nil {
		return fmt.Errorf("failed to save tracking map to kv: %w", err)
	}
	return nil
}
