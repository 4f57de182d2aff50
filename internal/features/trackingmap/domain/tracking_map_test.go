package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Plain", "9876543210", "9876543210"},
		{"CountryCode", "+91 98765-43210", "9876543210"},
		{"LeadingZero", "09876543210", "9876543210"},
		{"Short", "12345", "12345"},
		{"Empty", "", ""},
		{"NoDigits", "abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMobile(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeMobile(got), "normalization must be idempotent")
		})
	}
}

func TestNormalizeDocIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want []string
	}{
		{"CommaSeparated", "111, 222,333", []string{"111", "222", "333"}},
		{"Whitespace", "111 \n 222\t333", []string{"111", "222", "333"}},
		{"Duplicates", "111,222,111", []string{"111", "222"}},
		{"StripsNonDigits", "AB-123,#456", []string{"123", "456"}},
		{"StringSlice", []string{" 9 ", "", "9", "8"}, []string{"9", "8"}},
		{"MixedSlice", []any{"1", 2.0, json.Number("3"), true, nil, "1"}, []string{"1", "2", "3"}},
		{"Number", float64(1698979542), []string{"1698979542"}},
		{"Int", 42, []string{"42"}},
		{"Nil", nil, []string{}},
		{"Empty", "", []string{}},
		{"Unsupported", map[string]any{"a": 1}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDocIDs(tt.raw))
		})
	}
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("+91 98765 43210", "111,222")
	require.NoError(t, err)
	assert.Equal(t, Entry{Mobile: "9876543210", DocIDs: []string{"111", "222"}}, e)

	_, err = NewEntry("n/a", "111")
	assert.ErrorIs(t, err, ErrInvalidMobile)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewEntry("9876543210", " , ")
	assert.ErrorIs(t, err, ErrNoDocIDs)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Provide at least one docId", err.Error())
}

func TestParseTrackingMap(t *testing.T) {
	data := []byte(`{
		"+91 98765 43210": ["111", 222, "111"],
		"8888888888": "333, 444",
		"": ["555"],
		"7777777777": [],
		"6666666666": null
	}`)

	m, err := ParseTrackingMap(data)
	require.NoError(t, err)

	assert.Equal(t, TrackingMap{
		"9876543210": {"111", "222"},
		"8888888888": {"333", "444"},
	}, m)
}

func TestParseTrackingMap_Invalid(t *testing.T) {
	_, err := ParseTrackingMap([]byte(`["not", "a", "map"]`))
	assert.Error(t, err)
}

func TestTrackingMap_Normalize(t *testing.T) {
	m := TrackingMap{
		"09876543210": {"1", "1", "x2"},
		"bad":         {"3"},
	}
	assert.Equal(t, TrackingMap{"9876543210": {"1", "2"}}, m.Normalize())
}

func TestTrackingMap_Normalize_CollidingKeys(t *testing.T) {
	m := TrackingMap{
		"+919876543210": {"2"},
		"9876543210":    {"1"},
	}
	// "9876543210" sorts after "+919876543210", so it wins.
	assert.Equal(t, TrackingMap{"9876543210": {"1"}}, m.Normalize())
}

func TestTrackingMap_Lookup(t *testing.T) {
	m := TrackingMap{"9876543210": {"1"}}

	ids, err := m.Lookup("9876543210")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)

	_, err = m.Lookup("1111111111")
	assert.ErrorIs(t, err, ErrNotFound)
}
