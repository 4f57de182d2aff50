package cache

import (
	"fmt"
	"net/http"
	"net/url"
)

// New picks the adapter from the URL scheme: redis:// and rediss:// use the
// native protocol, http:// and https:// use the REST protocol with token.
// Both honor the timeout of client.
func New(rawURL, token string, client *http.Client) (Cache, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid KV URL: %w", err)
	}

	switch u.Scheme {
	case "redis", "rediss":
		var opts []RedisOption
		if client != nil {
			opts = append(opts, WithRedisTimeout(client.Timeout))
		}
		a, err := NewRedisAdapter(rawURL, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "http", "https":
		a, err := NewRESTAdapter(rawURL, token, client)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported KV URL scheme %q", u.Scheme)
	}
}
