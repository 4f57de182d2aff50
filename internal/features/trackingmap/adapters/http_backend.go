package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"

	"golang.org/x/sync/singleflight"
)

const (
	maxDocumentBytes = 2 << 20
	fetchTimeout     = 10 * time.Second
)

// HTTPBackend reads the tracking map published as a static asset of the
// deployed site. It is read-only.
type HTTPBackend struct {
	url    string
	client *http.Client
	group  singleflight.Group
}

// NewHTTPBackend creates a backend reading {baseURL}/tracking-map.json.
func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	return &HTTPBackend{
		url:    strings.TrimRight(baseURL, "/") + "/tracking-map.json",
		client: client,
	}
}

// Name implements ports.Backend.
func (b *HTTPBackend) Name() string { return "http" }

// Read fetches the document. Concurrent reads share one request, which is
// detached from any single caller: a cancelled caller stops waiting but the
// others still get the result.
func (b *HTTPBackend) Read(ctx context.Context) (domain.TrackingMap, error) {
	ch := b.group.DoChan(b.url, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return b.fetch(fctx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(domain.TrackingMap), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *HTTPBackend) fetch(ctx context.Context) (domain.TrackingMap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking map request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ports.ErrNoDocument
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read tracking map: %w", err)
	}
	return domain.ParseTrackingMap(data)
}

// Write implements ports.Backend; the published asset cannot be changed.
func (b *HTTPBackend) Write(_ context.Context, _ domain.TrackingMap) error {
	return domain.ErrReadOnly
}

// ReadOnlyBackend is the write target when nothing writable is configured.
type ReadOnlyBackend struct{}

// Name implements ports.Backend.
func (ReadOnlyBackend) Name() string { return "read-only" }

// Read implements ports.Backend.
func (ReadOnlyBackend) Read(_ context.Context) (domain.TrackingMap, error) {
	return nil, ports.ErrNoDocument
}

// Write always fails with domain.ErrReadOnly.
func (ReadOnlyBackend) Write(_ context.Context, _ domain.TrackingMap) error {
	return domain.ErrReadOnly
}
