package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"courier-tracker/internal/features/trackingmap/domain"
	"courier-tracker/internal/features/trackingmap/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_ReadMissing(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "missing.json"))

	_, err := b.Read(context.Background())
	assert.ErrorIs(t, err, ports.ErrNoDocument)
}

func TestFileBackend_WriteMirrors(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data", "tracking-map.json")
	publicPath := filepath.Join(dir, "public", "nested", "tracking-map.json")

	b := NewFileBackend(dataPath, publicPath)
	err := b.Write(context.Background(), domain.TrackingMap{
		"9876543210": {"111"},
		"1234567890": {"222", "333"},
	})
	require.NoError(t, err)

	want := "{\n  \"1234567890\": [\n    \"222\",\n    \"333\"\n  ],\n  \"9876543210\": [\n    \"111\"\n  ]\n}\n"
	for _, p := range []string{dataPath, publicPath} {
		got, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, want, string(got), p)
	}

	m, err := b.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"222", "333"}, m["1234567890"])
}

func TestFileBackend_ReadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking-map.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := NewFileBackend(path).Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNoDocument)
}

func TestFileBackend_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// A regular file where a directory is needed.
	b := NewFileBackend(filepath.Join(blocker, "tracking-map.json"))
	err := b.Write(context.Background(), domain.TrackingMap{"1234567890": {"1"}})
	assert.Error(t, err)
}
