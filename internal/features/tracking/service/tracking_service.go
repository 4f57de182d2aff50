package service

import (
	"context"
	"time"

	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/features/tracking/domain"
	"courier-tracker/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// TrackingService orchestrates tracking requests across courier providers.
type TrackingService struct {
	providers []ports.TrackingProvider
	logger    *zap.Logger
}

// NewTrackingService creates a new TrackingService with the given providers.
func NewTrackingService(providers []ports.TrackingProvider) *TrackingService {
	return &TrackingService{
		providers: providers,
		logger:    logger.Named("tracking"),
	}
}

// SupportsCourier reports whether any provider handles courierSlug.
func (s *TrackingService) SupportsCourier(courierSlug string) bool {
	return s.providerFor(courierSlug) != nil
}

// TrackDocIDs tracks each doc id in order, one at a time, and returns one
// result per id in the same order. A failing id never stops the batch.
func (s *TrackingService) TrackDocIDs(ctx context.Context, courierSlug string, docIDs []string) []domain.TrackingResult {
	results := make([]domain.TrackingResult, 0, len(docIDs))

	provider := s.providerFor(courierSlug)
	if provider == nil {
		s.logger.Warn("Courier not supported", zap.String("courier_slug", courierSlug))
		for _, id := range docIDs {
			results = append(results, domain.NewFailureResult(id, domain.ErrCourierNotSupported))
		}
		return results
	}

	start := time.Now()
	failed := 0
	for _, id := range docIDs {
		shipment, err := provider.FetchCheckpoints(ctx, courierSlug, id)
		if err != nil {
			failed++
			s.logger.Warn("Tracking failed",
				zap.String("courier_slug", courierSlug),
				zap.String("doc_id", id),
				zap.Error(err),
			)
			results = append(results, domain.NewFailureResult(id, err))
			continue
		}
		results = append(results, domain.NewSuccessResult(id, shipment.Response, shipment.TableKey.WasDefault))
	}

	s.logger.Info("Tracked doc ids",
		zap.String("courier_slug", courierSlug),
		zap.Int("total", len(docIDs)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
	return results
}

func (s *TrackingService) providerFor(courierSlug string) ports.TrackingProvider {
	for _, provider := range s.providers {
		if provider.SupportsCourier(courierSlug) {
			return provider
		}
	}
	return nil
}
