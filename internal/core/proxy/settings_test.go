package proxy

import (
	"testing"

	"courier-tracker/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Disabled(t *testing.T) {
	s := FromConfig(config.ProxyConfig{Hostname: "proxy.local", Port: 3128})

	assert.False(t, s.HasProxy())
	assert.False(t, s.HasCredentials())
	assert.Empty(t, s.HostPort())
	assert.Nil(t, s.URL())
}

func TestSettings_WithCredentials(t *testing.T) {
	s := FromConfig(config.ProxyConfig{
		Enabled:  true,
		Hostname: "proxy.local",
		Port:     3128,
		Username: "user",
		Password: "p@ss",
	})

	assert.True(t, s.HasProxy())
	assert.True(t, s.HasCredentials())
	assert.Equal(t, "http://proxy.local:3128", s.HostPort())

	u := s.URL()
	require.NotNil(t, u)
	assert.Equal(t, "proxy.local:3128", u.Host)
	assert.Equal(t, "user", u.User.Username())
	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss", pass)
}

func TestSettings_WithoutCredentials(t *testing.T) {
	s := Settings{Enabled: true, Hostname: "proxy.local", Port: 8080}

	assert.True(t, s.HasProxy())
	assert.False(t, s.HasCredentials())
	assert.Nil(t, s.URL().User)
}
