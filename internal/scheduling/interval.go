package scheduling

import (
	"fmt"
	"strconv"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// This is the single overlap predicate used by both the slot resolver and
// the booking conflict check.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Clock is a time of day parsed from an "HH:MM" string.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an "HH:MM" string. It fails fast on malformed input
// instead of producing an invalid window.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	minute, err := strconv.Atoi(s[3:])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid time %q: out of range", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// On anchors the clock time to the calendar day of date, in date's location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// DayBounds returns the local day boundaries [00:00, next midnight) for date.
// Repositories use this to fetch a trainer's sessions for one calendar day.
func DayBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 0, 1)
}
