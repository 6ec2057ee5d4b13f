package helpers

import (
	"fmt"
	"math"
	"time"
)

const (
	// DateLayout is the wire format for run dates
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for run start/end times
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", value, err)
	}
	return t, nil
}

// ParseClock validates an HH:MM time-of-day string and returns it
// normalized. Clock strings sort lexicographically in time order.
func ParseClock(value string) (string, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid time format %q: %w", value, err)
	}
	return t.Format(ClockLayout), nil
}

// FormatDate renders a date in the wire format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatClock12h renders an HH:MM clock string in 12-hour form for emails,
// e.g. "18:30" => "6:30 PM". Falls back to the input when unparseable.
func FormatClock12h(clock string) string {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}

// ParseDuration parses a duration string, falling back to a default
func ParseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// Round2 rounds a float to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds a float to 1 decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
