package config

import (
	"fmt"
	"strings"
	"time"
)

// parseDuration parses an optional non-negative duration field. Empty means
// zero; the field path names the offender in the error.
func parseDuration(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// parseDurationOrDefault substitutes def when the field is empty or zero.
func parseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := parseDuration(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
