package repository

import "time"

// Interval is the uniform sampling interval a sensor series is resampled to.
type Interval string

const (
	IV1s Interval = "1s"
	IV1m Interval = "1m"
	IV5m Interval = "5m"
)

// IsValidInterval returns true if iv is a supported sampling interval.
func IsValidInterval(iv Interval) bool {
	switch iv {
	case IV1s, IV1m, IV5m:
		return true
	default:
		return false
	}
}

// DefaultInterval returns the default sampling interval.
func DefaultInterval() Interval { return IV1m }

// NormalizeInterval converts a raw string to a valid interval (or default).
func NormalizeInterval(s string) Interval {
	if s == "" {
		return DefaultInterval()
	}
	iv := Interval(s)
	if IsValidInterval(iv) {
		return iv
	}
	return DefaultInterval()
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case IV1s:
		return time.Second
	case IV5m:
		return 5 * time.Minute
	default:
		return time.Minute
	}
}
