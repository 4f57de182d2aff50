package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChallenge is returned when the courier issues an unusable challenge.
	ErrInvalidChallenge = errors.New("failed to obtain trackcourier challenge")
	// ErrCourierNotSupported is returned when no provider handles the courier slug.
	ErrCourierNotSupported = errors.New("courier not supported")
)

// Challenge is a server-issued proof-of-work challenge and the session cookie
// that came with it.
type Challenge struct {
	Challenge    string `json:"challenge"`
	Difficulty   int    `json:"difficulty"`
	CookieHeader string `json:"-"`
}

// TableKey is the per-shipment access token used by the checkpoints API.
// WasDefault is set when scraping failed and the fallback key was used.
type TableKey struct {
	Key        string
	WasDefault bool
}

// UpstreamError is returned when the checkpoints API answers with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Snippet    string
}

// MaxSnippetLength caps the response body kept for diagnostics.
const MaxSnippetLength = 300

// NewUpstreamError truncates body to MaxSnippetLength characters.
func NewUpstreamError(status int, body string) *UpstreamError {
	r := []rune(body)
	if len(r) > MaxSnippetLength {
		r = r[:MaxSnippetLength]
	}
	return &UpstreamError{StatusCode: status, Snippet: string(r)}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("trackcourier API failed (%d): %s", e.StatusCode, e.Snippet)
}

// Shipment is a successful checkpoints fetch and the table key it used.
type Shipment struct {
	Response *CourierResponse
	TableKey TableKey
}
