package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"
)

// FileBackend implements ports.Backend on a local JSON file. Writes also go
// to every mirror path, so a copy served as a static asset stays in sync.
type FileBackend struct {
	path    string
	mirrors []string
}

// NewFileBackend creates a new FileBackend.
func NewFileBackend(path string, mirrors ...string) *FileBackend {
	return &FileBackend{
		path:    path,
		mirrors: mirrors,
	}
}

// Name implements ports.Backend.
func (b *FileBackend) Name() string { return "file:" + b.path }

// Read loads the map from the primary path.
func (b *FileBackend) Read(_ context.Context) (domain.TrackingMap, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ports.ErrNoDocument
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return domain.ParseTrackingMap(data)
}

// Write stores the map as indented JSON with a trailing newline.
func (b *FileBackend) Write(_ context.Context, m domain.TrackingMap) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracking map: %w", err)
	}
	data = append(data, '\n')

	for _, p := range append([]string{b.path}, b.mirrors...) {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", p, err)
		}
	}
	return nil
}
