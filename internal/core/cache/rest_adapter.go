package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RESTAdapter implements the Cache interface against a Redis-over-HTTP service
// (Upstash / Vercel KV style): GET /get/{key}, POST /set/{key} and
// GET /ping, all authenticated with a bearer token.
type RESTAdapter struct {
	baseURL string
	token   string
	client  *http.Client
}

// restResponse is the envelope returned by every REST KV command.
type restResponse struct {
	Result *string `json:"result"`
	Error  string  `json:"error"`
}

// NewRESTAdapter creates a new REST key-value adapter.
func NewRESTAdapter(baseURL, token string, client *http.Client) (*RESTAdapter, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid REST KV URL: %q", baseURL)
	}
	if token == "" {
		return nil, fmt.Errorf("REST KV token is required")
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &RESTAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}, nil
}

// Get retrieves a value by key.
func (r *RESTAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := r.do(ctx, http.MethodGet, "/get/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if res.Result == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return []byte(*res.Result), nil
}

// Set stores a value; a positive ttl is sent as the EX argument.
func (r *RESTAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	path := "/set/" + url.PathEscape(key)
	if ttl > 0 {
		path += "?EX=" + strconv.Itoa(int(ttl.Seconds()))
	}
	if _, err := r.do(ctx, http.MethodPost, path, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Ping checks if the REST endpoint is reachable and the token accepted.
func (r *RESTAdapter) Ping(ctx context.Context) error {
	if _, err := r.do(ctx, http.MethodGet, "/ping", nil); err != nil {
		return fmt.Errorf("rest kv ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the HTTP client is shared.
func (r *RESTAdapter) Close() error {
	return nil
}

func (r *RESTAdapter) do(ctx context.Context, method, path string, body []byte) (*restResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var out restResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || out.Error != "" {
		return nil, fmt.Errorf("rest kv returned status %d: %s", resp.StatusCode, out.Error)
	}
	return &out, nil
}
