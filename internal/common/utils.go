package common

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a timestamp matches none of the accepted layouts.
var ErrInvalidTime = errors.New("invalid time format; use ISO-8601 or unix seconds")

// timeLayouts are tried in order. Layouts without an offset parse as UTC wall clock.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime tries the ISO-8601 layouts above, then unix seconds.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, ErrInvalidTime
}

// ColumnIndex returns the position of the first header matching any of names
// (case-insensitive, surrounding spaces ignored), or -1.
func ColumnIndex(header []string, names ...string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}
