// Package timespan parses the compact max-age notation used on the CLI.
package timespan

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var spanPattern = regexp.MustCompile(`^([0-9]+)(w|d|h|s|ms|us)$`)

// Minutes are intentionally unsupported: "m" would be ambiguous with months.
var unitDurations = map[string]time.Duration{
	"w":  7 * 24 * time.Hour,
	"d":  24 * time.Hour,
	"h":  time.Hour,
	"s":  time.Second,
	"ms": time.Millisecond,
	"us": time.Microsecond,
}

// Parse converts strings like "1d", "7w", or "777us" into a duration.
func Parse(value string) (time.Duration, error) {
	groups := spanPattern.FindStringSubmatch(value)
	if groups == nil {
		return 0, fmt.Errorf("invalid timespan %q: expected <n><w|d|h|s|ms|us>", value)
	}

	length, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timespan %q: %w", value, err)
	}

	return time.Duration(length) * unitDurations[groups[2]], nil
}
