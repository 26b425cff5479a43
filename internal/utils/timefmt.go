package utils

import (
	"fmt"
	"strings"
)

// NormalizeTime canonicalizes a requested appointment time to HH:MM:SS.
// Accepts "9:00", "09:00" and "09:00:00". The store may persist start times
// with or without seconds, so comparisons are done on the HH:MM prefix.
func NormalizeTime(t string) (string, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return "", fmt.Errorf("empty time")
	}
	parts := strings.Split(t, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid time format: %q", t)
	}
	if len(parts[0]) == 1 {
		parts[0] = "0" + parts[0]
	}
	for _, p := range parts {
		if len(p) != 2 {
			return "", fmt.Errorf("invalid time format: %q", t)
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return "", fmt.Errorf("invalid time format: %q", t)
			}
		}
	}
	if parts[0] > "23" || parts[1] > "59" {
		return "", fmt.Errorf("time out of range: %q", t)
	}
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	return strings.Join(parts, ":"), nil
}

// TimeKey returns the HH:MM prefix used to match requested times against
// stored slot start times.
func TimeKey(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
