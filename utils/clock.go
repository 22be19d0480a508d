package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseClock converts an "HH:MM" wall-clock string to minutes from midnight.
// "24:00" is accepted as the exclusive end of the day, so an interval ending
// at midnight round-trips.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h == 24 && m == 0 {
		return 24 * 60, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes from midnight back to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddClock shifts an "HH:MM" value forward by the given minutes. The result
// stays wall-clock arithmetic; callers must not let appointments cross
// midnight.
func AddClock(s string, minutes int) (string, error) {
	start, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	end := start + minutes
	if end > 24*60 {
		return "", fmt.Errorf("clock value %q plus %d minutes crosses midnight", s, minutes)
	}
	return FormatClock(end), nil
}

// ParseDate parses a "2006-01-02" date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Weekday returns the day of week (0=Sunday) for a "2006-01-02" date string.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}
