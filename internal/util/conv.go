package util

import (
	"strconv"
	"strings"
	"time"
)

// MustParseUint converts a route parameter to uint, returning 0 when it
// does not parse.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseClockDuration parses the quiz time-limit format, "HH:mm:ss" or
// "mm:ss". An empty string is a valid zero (untimed) limit; anything
// else malformed is an error rather than a silent zero.
func ParseClockDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrInvalidTimeLimit
	}

	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, ErrInvalidTimeLimit
		}
		values[i] = v
	}

	if len(values) == 3 {
		return time.Duration(values[0])*time.Hour +
			time.Duration(values[1])*time.Minute +
			time.Duration(values[2])*time.Second, nil
	}
	return time.Duration(values[0])*time.Minute +
		time.Duration(values[1])*time.Second, nil
}
