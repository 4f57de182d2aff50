package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MobileLength is the number of trailing digits kept from a mobile number.
const MobileLength = 10

// ErrValidation is matched by every input validation error.
var ErrValidation = errors.New("validation failed")

// ValidationError is a user-facing validation failure. It matches ErrValidation.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

var (
	ErrInvalidMobile = &ValidationError{msg: "Invalid mobile number"}
	ErrNoDocIDs      = &ValidationError{msg: "Provide at least one docId"}

	// ErrReadOnly is returned by writes when no writable backend is configured.
	ErrReadOnly = errors.New("updating tracking-map.json is not supported in production (filesystem is read-only). Update the JSON in git, or configure KV_URL")
	// ErrNotFound is returned when a mobile number has no doc ids.
	ErrNotFound = errors.New("No tracking found for this mobile number. Please contact support.")
)

var (
	nonDigits     = regexp.MustCompile(`\D`)
	docIDSplitter = regexp.MustCompile(`[\s,]+`)
)

// TrackingMap maps a normalized mobile number to its ordered doc ids.
type TrackingMap map[string][]string

// Entry is a single mobile → doc ids mapping.
type Entry struct {
	Mobile string   `json:"mobile"`
	DocIDs []string `json:"docIds"`
}

// NormalizeMobile keeps digits only, then the last MobileLength of them.
func NormalizeMobile(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) > MobileLength {
		return digits[len(digits)-MobileLength:]
	}
	return digits
}

// NormalizeDocIDs accepts a comma/whitespace separated string, a list of
// strings or numbers, or a single number. Every id is reduced to its digits;
// empty ids are dropped and duplicates removed, keeping first-seen order.
func NormalizeDocIDs(raw any) []string {
	var candidates []string

	switch v := raw.(type) {
	case string:
		candidates = docIDSplitter.Split(v, -1)
	case []string:
		candidates = v
	case []any:
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				candidates = append(candidates, s)
			}
		}
	default:
		if s, ok := scalarString(v); ok {
			candidates = []string{s}
		}
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		id := nonDigits.ReplaceAllString(strings.TrimSpace(c), "")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// NewEntry validates and normalizes a mobile number and its doc ids.
func NewEntry(mobile string, docIDs any) (Entry, error) {
	m := NormalizeMobile(mobile)
	if m == "" {
		return Entry{}, ErrInvalidMobile
	}
	ids := NormalizeDocIDs(docIDs)
	if len(ids) == 0 {
		return Entry{}, ErrNoDocIDs
	}
	return Entry{Mobile: m, DocIDs: ids}, nil
}

// ParseTrackingMap decodes a stored document into a normalized TrackingMap.
// Values may be lists or comma separated strings.
func ParseTrackingMap(data []byte) (TrackingMap, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode tracking map: %w", err)
	}
	return normalizeRaw(raw), nil
}

// Normalize returns a copy with every key and id list re-normalized.
// Entries that end up without a mobile or without ids are dropped.
func (m TrackingMap) Normalize() TrackingMap {
	raw := make(map[string]any, len(m))
	for k, v := range m {
		raw[k] = v
	}
	return normalizeRaw(raw)
}

// normalizeRaw walks keys in sorted order so that two keys collapsing into
// the same mobile resolve the same way every time: the later key wins.
func normalizeRaw(raw map[string]any) TrackingMap {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(TrackingMap, len(raw))
	for _, k := range keys {
		mobile := NormalizeMobile(k)
		ids := NormalizeDocIDs(raw[k])
		if mobile == "" || len(ids) == 0 {
			continue
		}
		out[mobile] = ids
	}
	return out
}

// Lookup returns the doc ids mapped to an already normalized mobile.
func (m TrackingMap) Lookup(mobile string) ([]string, error) {
	ids := m[mobile]
	if len(ids) == 0 {
		return nil, ErrNotFound
	}
	return ids, nil
}
