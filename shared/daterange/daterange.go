// Package daterange parses and validates reservation windows.
package daterange

import (
	"net/http"
	"strings"
	"time"

	"escaperoom/shared/failure"
)

var (
	ErrMissing      = failure.New(http.StatusBadRequest, "start_date and end_date are required")
	ErrFormat       = failure.New(http.StatusBadRequest, "invalid date format, use ISO8601 (YYYY-MM-DDTHH:MM:SSZ)")
	ErrOrder        = failure.New(http.StatusBadRequest, "start_date must be before end_date")
	ErrNotInFuture  = failure.New(http.StatusBadRequest, "start_date and end_date must be in the future")
	zonedLayouts    = []string{time.RFC3339Nano, "2006-01-02T15:04Z07:00"}
	zonelessLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and other share any instant.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Duration is End minus Start.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// ParseWindow parses both bounds and requires start < end.
func ParseWindow(start, end any) (Range, error) {
	startTime, ok, err := parse(start)
	if err != nil {
		return Range{}, err
	}

	endTime, endOK, err := parse(end)
	if err != nil {
		return Range{}, err
	}

	if !ok || !endOK {
		return Range{}, ErrMissing
	}

	if !startTime.Before(endTime) {
		return Range{}, ErrOrder
	}

	return Range{Start: startTime, End: endTime}, nil
}

// Parse is ParseWindow plus the rule that both bounds lie strictly after now.
func Parse(start, end any, now time.Time) (Range, error) {
	window, err := ParseWindow(start, end)
	if err != nil {
		return Range{}, err
	}

	if !window.Start.After(now) || !window.End.After(now) {
		return Range{}, ErrNotInFuture
	}

	return window, nil
}

// parse normalizes value to a UTC instant. ok is false when value is absent.
func parse(value any) (t time.Time, ok bool, err error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false, nil
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false, nil
		}

		return v.UTC(), true, nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false, nil
		}

		return v.UTC(), true, nil
	case string:
		return parseString(v)
	case *string:
		if v == nil {
			return time.Time{}, false, nil
		}

		return parseString(*v)
	default:
		return time.Time{}, false, ErrFormat
	}
}

func parseString(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, nil
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true, nil
		}
	}

	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true, nil
		}
	}

	return time.Time{}, false, ErrFormat
}
