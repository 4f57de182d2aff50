package ports

import (
	"context"
	"errors"

	"courier-tracker/internal/features/trackingmap/domain"
)

// ErrNoDocument is returned by Backend.Read when the backend holds no map.
var ErrNoDocument = errors.New("no tracking map document")

// TrackingMapStore defines the primary port for tracking map operations.
type TrackingMapStore interface {
	ReadTrackingMap(ctx context.Context) (domain.TrackingMap, error)
	UpsertEntry(ctx context.Context, mobile string, docIDs any) (domain.Entry, error)
}

// Backend defines the secondary port for one place the tracking map lives.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string
	// Read returns the stored map, or ErrNoDocument when there is none.
	Read(ctx context.Context) (domain.TrackingMap, error)
	// Write replaces the stored map. Read-only backends return domain.ErrReadOnly.
	Write(ctx context.Context, m domain.TrackingMap) error
}
