package timespan

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cases := []struct {
		value    string
		expected time.Duration
	}{
		{"1d", 24 * time.Hour},
		{"12d", 12 * 24 * time.Hour},
		{"8h", 8 * time.Hour},
		{"83s", 83 * time.Second},
		{"99ms", 99 * time.Millisecond},
		{"777us", 777 * time.Microsecond},
		{"1w", 7 * 24 * time.Hour},
		{"7w", 49 * 24 * time.Hour},
	}

	for _, tc := range cases {
		got, err := Parse(tc.value)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", tc.value, err)
		}
		if got != tc.expected {
			t.Fatalf("Parse(%q) = %v, expected %v", tc.value, got, tc.expected)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, value := range []string{"", "d", "10", "10m", "3y", "1.5d", "-2d", "1d2h", " 1d"} {
		if _, err := Parse(value); err == nil {
			t.Fatalf("Parse(%q) should fail", value)
		}
	}
}
