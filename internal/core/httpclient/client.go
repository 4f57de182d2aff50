package httpclient

import (
	"net/http"
	"time"

	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// Option customizes the client built by NewClient.
type Option func(*http.Transport)

// WithProxy routes every request through the configured upstream proxy.
func WithProxy(settings proxy.Settings) Option {
	return func(t *http.Transport) {
		if u := settings.URL(); u != nil {
			t.Proxy = http.ProxyURL(u)
		}
	}
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration, opts ...Option) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	for _, opt := range opts {
		opt(transport)
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
		},
		Timeout: timeout,
	}
}
