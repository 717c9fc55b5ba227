package scheduling

import (
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
)

// SlotStep is the fixed interval between candidate slot start times. It is
// independent of the requested session duration, so returned slots may
// overlap each other: the list expresses start-time options, not a disjoint
// partition of the window.
const SlotStep = 30 * time.Minute

// TimeSlot is a bookable window offered to a client. Derived, never stored;
// recomputed on every query.
type TimeSlot struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  int       `json:"duration"` // minutes
}

// ResolveWindow computes the effective availability window for one date from
// the trainer's weekly rule and an optional date exception.
//
// The second return value is false when the trainer is simply unavailable
// that day (no rule, rule disabled, or an unavailable exception); that is
// an empty result, not an error. Errors are reserved for malformed "HH:MM"
// strings in the stored rule or exception.
func ResolveWindow(date time.Time, rule *domain.WeeklyAvailability, exc *domain.AvailabilityException) (Interval, bool, error) {
	if rule == nil || !rule.IsAvailable {
		return Interval{}, false, nil
	}
	// An exception overrides the weekly rule for its date unconditionally,
	// even when sessions already exist on that day.
	if exc != nil && !exc.IsAvailable {
		return Interval{}, false, nil
	}

	startStr, endStr := rule.StartTime, rule.EndTime
	if exc != nil {
		// An available exception replaces only the bounds it supplies.
		if exc.StartTime != nil {
			startStr = *exc.StartTime
		}
		if exc.EndTime != nil {
			endStr = *exc.EndTime
		}
	}

	start, err := ParseClock(startStr)
	if err != nil {
		return Interval{}, false, err
	}
	end, err := ParseClock(endStr)
	if err != nil {
		return Interval{}, false, err
	}

	w := Interval{Start: start.On(date), End: end.On(date)}
	if !w.Start.Before(w.End) {
		return Interval{}, false, nil
	}
	return w, true, nil
}

// GenerateSlots walks the window in fixed SlotStep increments and emits each
// candidate [cursor, cursor+duration) that fits inside the window and
// overlaps no blocking session. Output is chronological.
func GenerateSlots(window Interval, sessions []domain.Session, duration time.Duration) []TimeSlot {
	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}

	occupied := occupiedIntervals(sessions)
	for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(SlotStep) {
		candidate := Interval{Start: cursor, End: cursor.Add(duration)}
		if overlapsAny(candidate, occupied) {
			continue
		}
		slots = append(slots, TimeSlot{
			StartTime: candidate.Start,
			EndTime:   candidate.End,
			Duration:  int(duration / time.Minute),
		})
	}
	return slots
}

// Conflicts returns every blocking session that overlaps the proposed
// booking. An empty result means the interval is bookable. Callers must
// re-run this at commit time: the gap between "slot shown" and "slot booked"
// is closed only by this optimistic re-check.
func Conflicts(proposed Interval, sessions []domain.Session) []domain.Session {
	var conflicts []domain.Session
	for _, s := range sessions {
		if !s.Blocks() {
			continue
		}
		if Overlaps(proposed, sessionInterval(s)) {
			conflicts = append(conflicts, s)
		}
	}
	return conflicts
}

func sessionInterval(s domain.Session) Interval {
	return Interval{Start: s.StartTime, End: s.EffectiveEnd()}
}

func occupiedIntervals(sessions []domain.Session) []Interval {
	var out []Interval
	for _, s := range sessions {
		if !s.Blocks() {
			continue
		}
		out = append(out, sessionInterval(s))
	}
	return out
}

func overlapsAny(candidate Interval, occupied []Interval) bool {
	for _, o := range occupied {
		if Overlaps(candidate, o) {
			return true
		}
	}
	return false
}
