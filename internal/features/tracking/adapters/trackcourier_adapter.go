package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"courier-tracker/internal/core/config"
	"courier-tracker/internal/core/logger"
	"courier-tracker/internal/features/tracking/domain"
	"courier-tracker/internal/features/tracking/ports"
	"courier-tracker/internal/features/tracking/pow"

	"go.uber.org/zap"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// maxPageBytes bounds how much of an upstream response is read.
	maxPageBytes = 4 << 20

	sha256Bits = 256
)

// courierSlugPattern matches a lowercased slug. Slugs are path escaped when
// they go into a URL; a leading dot or any separator is rejected.
var courierSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`)

// TrackCourierAdapter tracks shipments through trackcourier.io, which gates
// its checkpoints API behind a proof-of-work challenge, a session cookie and
// a per-shipment table key scraped from the tracking page.
type TrackCourierAdapter struct {
	baseURL         string
	defaultTableKey string
	maxNonce        int64
	client          *http.Client
	fallback        ports.TableKeySource
	logger          *zap.Logger
}

// Option customizes a TrackCourierAdapter.
type Option func(*TrackCourierAdapter)

// WithTableKeyFallback sets a source consulted when the table key is not in
// the static page, before the default key is used.
func WithTableKeyFallback(src ports.TableKeySource) Option {
	return func(a *TrackCourierAdapter) {
		a.fallback = src
	}
}

// NewTrackCourierAdapter creates a new TrackCourierAdapter.
func NewTrackCourierAdapter(cfg config.CourierConfig, client *http.Client, opts ...Option) *TrackCourierAdapter {
	maxNonce := cfg.MaxNonce
	if maxNonce <= 0 {
		maxNonce = pow.DefaultMaxNonce
	}

	a := &TrackCourierAdapter{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		defaultTableKey: cfg.DefaultTableKey,
		maxNonce:        maxNonce,
		client:          client,
		logger:          logger.Named("trackcourier"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// challengeResponse is the body of GET /get-challenge. Both fields are loosely
// typed upstream, so they are decoded as raw values and coerced.
type challengeResponse struct {
	Challenge  any `json:"challenge"`
	Difficulty any `json:"difficulty"`
}

// FetchChallenge requests a fresh proof-of-work challenge and collects the
// session cookie issued with it.
func (a *TrackCourierAdapter) FetchChallenge(ctx context.Context) (*domain.Challenge, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/get-challenge", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenge: %w", err)
	}
	defer resp.Body.Close()

	var body challengeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode challenge (status %d): %w", resp.StatusCode, err)
	}

	challenge := stringValue(body.Challenge)
	difficulty, ok := difficultyValue(body.Difficulty)
	if challenge == "" || !ok {
		return nil, fmt.Errorf("%w: challenge=%q difficulty=%v", domain.ErrInvalidChallenge, challenge, body.Difficulty)
	}

	return &domain.Challenge{
		Challenge:    challenge,
		Difficulty:   difficulty,
		CookieHeader: extractCookieHeader(resp.Header.Values("Set-Cookie")),
	}, nil
}

// GetTableKey scrapes the shipment's table key from its tracking page. It never
// fails: when the key cannot be found it falls back to the browser source (if
// any) and then to the default key, reporting that through WasDefault.
func (a *TrackCourierAdapter) GetTableKey(ctx context.Context, courierSlug, docID, cookieHeader string) domain.TableKey {
	key, err := a.scrapeTableKey(ctx, courierSlug, docID, cookieHeader)
	if err == nil {
		return domain.TableKey{Key: key}
	}

	if a.fallback != nil {
		fk, ferr := a.fallback.TableKey(ctx, courierSlug, docID, cookieHeader)
		if ferr == nil && fk != "" {
			a.logger.Info("Table key recovered by fallback source",
				zap.String("courier_slug", courierSlug),
				zap.String("doc_id", docID),
			)
			return domain.TableKey{Key: fk}
		}
		if ferr == nil {
			ferr = errors.New("empty table key")
		}
		err = fmt.Errorf("%v; fallback: %v", err, ferr)
	}

	a.logger.Warn("Using default table key",
		zap.String("courier_slug", courierSlug),
		zap.String("doc_id", docID),
		zap.Error(err),
	)
	return domain.TableKey{Key: a.defaultTableKey, WasDefault: true}
}

func (a *TrackCourierAdapter) scrapeTableKey(ctx context.Context, courierSlug, docID, cookieHeader string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.trackPageURL(courierSlug, docID), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create tracking page request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("User-Agent", userAgent)
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch tracking page: %w", err)
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read tracking page: %w", err)
	}

	key, ok := extractTableKey(string(page))
	if !ok {
		return "", fmt.Errorf("table key not found in tracking page (status %d)", resp.StatusCode)
	}
	return key, nil
}

// checkpointsRequest is the proof-of-work envelope posted to the checkpoints API.
type checkpointsRequest struct {
	Challenge string `json:"challenge"`
	Nonce     int64  `json:"nonce"`
	Hash      string `json:"hash"`
}

// FetchCheckpoints runs the full handshake for one doc id: challenge, proof of
// work, table key (reusing the challenge's session cookie) and the
// authenticated checkpoints call.
func (a *TrackCourierAdapter) FetchCheckpoints(ctx context.Context, courierSlug, docID string) (*domain.Shipment, error) {
	challenge, err := a.FetchChallenge(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	solution, err := pow.SolveRange(challenge.Challenge, challenge.Difficulty, pow.DefaultStartNonce, a.maxNonce)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Proof of work solved",
		zap.Int("difficulty", challenge.Difficulty),
		zap.Int64("nonce", solution.Nonce),
		zap.Duration("duration", time.Since(start)),
	)

	tableKey := a.GetTableKey(ctx, courierSlug, docID, challenge.CookieHeader)

	payload, err := json.Marshal(checkpointsRequest{
		Challenge: challenge.Challenge,
		Nonce:     solution.Nonce,
		Hash:      solution.Hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkpoints request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/api/v1/get_checkpoints_table/%s/%s/%s",
		a.baseURL, url.PathEscape(tableKey.Key), url.PathEscape(courierSlug), url.PathEscape(docID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoints request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Origin", a.baseURL)
	req.Header.Set("Referer", a.trackPageURL(courierSlug, docID))
	req.Header.Set("User-Agent", userAgent)
	if challenge.CookieHeader != "" {
		req.Header.Set("Cookie", challenge.CookieHeader)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call checkpoints API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewUpstreamError(resp.StatusCode, string(body))
	}

	var data domain.CourierResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoints response: %w", err)
	}

	return &domain.Shipment{Response: &data, TableKey: tableKey}, nil
}

// SupportsCourier returns true for any well-formed trackcourier slug.
func (a *TrackCourierAdapter) SupportsCourier(courierSlug string) bool {
	return courierSlugPattern.MatchString(strings.ToLower(courierSlug))
}

func (a *TrackCourierAdapter) trackPageURL(courierSlug, docID string) string {
	return fmt.Sprintf("%s/track-and-trace/%s/%s", a.baseURL, url.PathEscape(courierSlug), url.PathEscape(docID))
}

// stringValue renders a loosely typed JSON scalar as a string.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// difficultyValue coerces a JSON number or numeric string into a positive bit
// count. Fractional difficulties round up, since a bit count can only meet
// them at the next integer.
func difficultyValue(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	// A SHA-256 digest has 256 bits; anything above is unsatisfiable either way.
	if f > sha256Bits {
		return sha256Bits + 1, true
	}
	return int(math.Ceil(f)), true
}
