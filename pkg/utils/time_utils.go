package utils

import (
	"fmt"
	"time"
)

// FormatAge renders a cache age for humans ("just now", "5m ago", "3h ago", "2d ago")
func FormatAge(age time.Duration) string {
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age/time.Minute))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(age/(24*time.Hour)))
	}
}

// CutoffBefore returns the instant maxAge before now
func CutoffBefore(now time.Time, maxAge time.Duration) time.Time {
	return now.Add(-maxAge)
}
