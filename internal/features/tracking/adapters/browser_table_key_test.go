package adapter

import (
	"context"
	"testing"
	"time"

	"courier-tracker/internal/core/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowserTableKeySource_Defaults(t *testing.T) {
	s := NewBrowserTableKeySource("https://trackcourier.io/", proxy.Settings{}, 0)

	assert.Equal(t, "https://trackcourier.io", s.baseURL)
	assert.Equal(t, 45*time.Second, s.timeout)
	assert.NotNil(t, s.logger)
}

func TestBrowserTableKeySource_PageURL(t *testing.T) {
	s := NewBrowserTableKeySource("https://trackcourier.io", proxy.Settings{}, 0)

	assert.Equal(t, "https://trackcourier.io/track-and-trace/anjani-courier/1698979542",
		s.pageURL("anjani-courier", "1698979542"))
	assert.Equal(t, "https://trackcourier.io/track-and-trace/Anjani%20Courier/a%2Fb%3Fc",
		s.pageURL("Anjani Courier", "a/b?c"))
}

func TestBrowserTableKeySource_StartProxy(t *testing.T) {
	ctx := context.Background()

	t.Run("NoProxy", func(t *testing.T) {
		s := NewBrowserTableKeySource("https://trackcourier.io", proxy.Settings{}, time.Second)
		addr, stop, err := s.startProxy(ctx)
		require.NoError(t, err)
		defer stop()
		assert.Empty(t, addr)
	})

	t.Run("ProxyWithoutCredentials", func(t *testing.T) {
		s := NewBrowserTableKeySource("https://trackcourier.io", proxy.Settings{
			Enabled: true, Hostname: "proxy.local", Port: 3128,
		}, time.Second)
		addr, stop, err := s.startProxy(ctx)
		require.NoError(t, err)
		defer stop()
		assert.Equal(t, "http://proxy.local:3128", addr)
	})

	t.Run("ProxyWithCredentialsStartsForwarder", func(t *testing.T) {
		s := NewBrowserTableKeySource("https://trackcourier.io", proxy.Settings{
			Enabled: true, Hostname: "127.0.0.1", Port: 1, Username: "u", Password: "p",
		}, time.Second)
		addr, stop, err := s.startProxy(ctx)
		require.NoError(t, err)
		defer stop()
		assert.Contains(t, addr, "http://127.0.0.1:")
	})
}
