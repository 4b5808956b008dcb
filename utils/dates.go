package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const dateOnly = "2006-01-02"

// ParseFilterDate reads a YYYY-MM-DD or RFC3339 query value. A date-only value
// is widened to the start of that day, or to its end when endOfDay is set, so
// that an inclusive range covers the whole day.
func ParseFilterDate(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	day, err := time.ParseInLocation(dateOnly, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	t := now.With(day).BeginningOfDay()
	if endOfDay {
		t = now.With(day).EndOfDay()
	}
	return &t, nil
}
