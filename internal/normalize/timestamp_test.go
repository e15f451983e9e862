package normalize

import (
	"errors"
	"testing"
)

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "already canonical UTC passes through",
			raw:  "2023-03-21T08:00:00Z",
			want: "2023-03-21T08:00:00Z",
		},
		{
			name: "positive offset converted to UTC",
			raw:  "2023-03-21T10:00:00+02:00",
			want: "2023-03-21T08:00:00Z",
		},
		{
			name: "negative offset converted to UTC",
			raw:  "2023-03-20T23:30:00-05:00",
			want: "2023-03-21T04:30:00Z",
		},
		{
			name: "fractional seconds truncated",
			raw:  "2023-03-21T08:00:00.987Z",
			want: "2023-03-21T08:00:00Z",
		},
		{
			name: "zone-less timestamp assumed UTC",
			raw:  "2023-03-21T08:00:00",
			want: "2023-03-21T08:00:00Z",
		},
		{
			name: "surrounding whitespace tolerated",
			raw:  "  2023-03-21T08:00:00Z  ",
			want: "2023-03-21T08:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTimestamp(tt.raw)
			if err != nil {
				t.Fatalf("NormalizeTimestamp(%q) returned unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTimestamp(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestamp_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"not a date", "yesterday morning"},
		{"date only", "2023-03-21"},
		{"month out of range", "2023-13-21T08:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTimestamp(tt.raw)
			if err == nil {
				t.Fatalf("NormalizeTimestamp(%q) expected error, got nil", tt.raw)
			}
			if !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("error = %v, want ErrMalformedTimestamp", err)
			}
		})
	}
}

func TestNormalizeTimestamp_Idempotent(t *testing.T) {
	once, err := NormalizeTimestamp("2023-03-21T10:00:00+02:00")
	if err != nil {
		t.Fatalf("first normalize failed: %v", err)
	}
	twice, err := NormalizeTimestamp(once)
	if err != nil {
		t.Fatalf("second normalize failed: %v", err)
	}
	if once != twice {
		t.Errorf("normalize not idempotent: %q then %q", once, twice)
	}
}
