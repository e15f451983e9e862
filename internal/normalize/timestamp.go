// Package normalize canonicalizes feedback timestamps to UTC ISO 8601.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedTimestamp is a per-record failure: the value passed the looser
// validation parse but could not be normalized.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// CanonicalLayout is UTC ISO 8601 with a literal Z suffix and whole seconds.
const CanonicalLayout = "2006-01-02T15:04:05Z07:00"

// Layouts accepted on input. Zone-less timestamps are assumed UTC.
// Fractional seconds are truncated, not rounded.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseISO8601 parses an ISO 8601 datetime which may carry a Z designator,
// a numeric offset, fractional seconds, or no zone at all (assumed UTC).
func ParseISO8601(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}

// NormalizeTimestamp converts raw to the canonical UTC form
// YYYY-MM-DDTHH:MM:SSZ. A timestamp already canonical passes through
// unchanged in value.
func NormalizeTimestamp(raw string) (string, error) {
	t, err := ParseISO8601(raw)
	if err != nil {
		return "", err
	}
	return t.UTC().Truncate(time.Second).Format(CanonicalLayout), nil
}
