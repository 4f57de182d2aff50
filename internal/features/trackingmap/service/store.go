package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"courier-tracker/internal/core/cache"
	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/features/trackingmap/adapters"
	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"

	"go.uber.org/zap"
)

// Config selects the backends of a Store. It is resolved once at startup.
type Config struct {
	KVKey        string
	BaseURL      string
	DataPath     string
	PublicPath   string
	IsProduction bool
}

// Store implements ports.TrackingMapStore over ranked backends. Reads try
// each reader in order and use the first document found; writes go to a
// single writer.
type Store struct {
	readers []ports.Backend
	writer  ports.Backend
	logger  *zap.Logger
}

// NewStore wires the backends for cfg. kv may be nil when no KV store is
// configured.
//
// Read order: kv, published asset (production only), data file, public file.
// Write target: kv, else read-only in production, else the data file
// mirrored to the public file.
func NewStore(cfg Config, kv cache.Cache, client *http.Client) *Store {
	var readers []ports.Backend
	var writer ports.Backend

	if kv != nil {
		b := adapters.NewKVBackend(kv, cfg.KVKey)
		readers = append(readers, b)
		writer = b
	}
	if cfg.IsProduction && cfg.BaseURL != "" {
		readers = append(readers, adapters.NewHTTPBackend(cfg.BaseURL, client))
	}

	files := adapters.NewFileBackend(cfg.DataPath, cfg.PublicPath)
	readers = append(readers, files, adapters.NewFileBackend(cfg.PublicPath))

	if writer == nil {
		if cfg.IsProduction {
			writer = adapters.ReadOnlyBackend{}
		} else {
			writer = files
		}
	}

	return NewStoreWithBackends(readers, writer)
}

// NewStoreWithBackends creates a Store from explicit backends.
func NewStoreWithBackends(readers []ports.Backend, writer ports.Backend) *Store {
	if writer == nil {
		writer = adapters.ReadOnlyBackend{}
	}
	return &Store{
		readers: readers,
		writer:  writer,
		logger:  logger.Named("trackingmap"),
	}
}

// ReadTrackingMap returns the first map found across the readers, or an
// empty map. A failing reader is logged and skipped.
func (s *Store) ReadTrackingMap(ctx context.Context) (domain.TrackingMap, error) {
	for _, b := range s.readers {
		m, err := b.Read(ctx)
		if err != nil {
			if !errors.Is(err, ports.ErrNoDocument) {
				s.logger.Warn("Tracking map backend failed", zap.String("backend", b.Name()), zap.Error(err))
			}
			continue
		}
		s.logger.Debug("Tracking map loaded", zap.String("backend", b.Name()), zap.Int("entries", len(m)))
		return m.Normalize(), nil
	}
	return domain.TrackingMap{}, nil
}

// UpsertEntry replaces the doc ids of one mobile number.
func (s *Store) UpsertEntry(ctx context.Context, mobile string, docIDs any) (domain.Entry, error) {
	entry, err := domain.NewEntry(mobile, docIDs)
	if err != nil {
		return domain.Entry{}, err
	}

	if _, ok := s.writer.(adapters.ReadOnlyBackend); ok {
		return domain.Entry{}, domain.ErrReadOnly
	}

	m, err := s.baseMap(ctx)
	if err != nil {
		return domain.Entry{}, err
	}
	m[entry.Mobile] = entry.DocIDs

	if err := s.writer.Write(ctx, m); err != nil {
		if errors.Is(err, domain.ErrReadOnly) {
			return domain.Entry{}, err
		}
		return domain.Entry{}, fmt.Errorf("failed to save tracking map: %w", err)
	}

	s.logger.Info("Tracking map entry updated",
		zap.String("backend", s.writer.Name()),
		zap.String("mobile", entry.Mobile),
		zap.Int("doc_ids", len(entry.DocIDs)),
	)
	return entry, nil
}

// baseMap reads the map an upsert modifies. The writer's own document wins;
// the ranked read only seeds a writer that holds no document yet. Any other
// writer failure aborts so the write never drops entries it could not see.
func (s *Store) baseMap(ctx context.Context) (domain.TrackingMap, error) {
	m, err := s.writer.Read(ctx)
	if err == nil {
		return m.Normalize(), nil
	}
	if !errors.Is(err, ports.ErrNoDocument) {
		return nil, fmt.Errorf("failed to read tracking map: %w", err)
	}
	return s.ReadTrackingMap(ctx)
}
