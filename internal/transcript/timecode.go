package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseWallClock converts an H:MM:SS.ss style timestamp to seconds,
// e.g. "1:10:05.55" -> 4205.55.
func ParseWallClock(value string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("wall clock %q: want H:MM:SS.ss", value)
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("wall clock %q: hours: %w", value, err)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("wall clock %q: minutes: %w", value, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("wall clock %q: seconds: %w", value, err)
	}
	return hours*3600 + minutes*60 + seconds, nil
}

// ParseSeconds converts a plain float seconds string.
func ParseSeconds(value string) (float64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("seconds %q: %w", value, err)
	}
	return parsed, nil
}
