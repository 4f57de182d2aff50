package ports

import (
	"context"

	"courier-tracker/internal/features/tracking/domain"
)

// TrackingProvider defines the interface for courier tracking implementations.
type TrackingProvider interface {
	// FetchCheckpoints retrieves the checkpoint payload for one doc id.
	FetchCheckpoints(ctx context.Context, courierSlug, docID string) (*domain.Shipment, error)
	// SupportsCourier returns true if this provider can track the given courier slug.
	SupportsCourier(courierSlug string) bool
}

// TableKeySource recovers the table key of a shipment by other means than
// the static tracking page, e.g. by rendering it in a browser.
type TableKeySource interface {
	TableKey(ctx context.Context, courierSlug, docID, cookieHeader string) (string, error)
}

// Tracker defines the primary port used by the HTTP handlers.
type Tracker interface {
	// TrackDocIDs returns one result per doc id, in input order.
	TrackDocIDs(ctx context.Context, courierSlug string, docIDs []string) []domain.TrackingResult
}
