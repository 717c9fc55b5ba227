package scheduling

import (
	"testing"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Monday 2025-06-02 in UTC.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func mondayRule(start, end string) *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		TrainerID:   primitive.NewObjectID(),
		DayOfWeek:   1,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
}

func sessionAt(t *testing.T, day time.Time, start, end string) domain.Session {
	t.Helper()
	sc, err := ParseClock(start)
	if err != nil {
		t.Fatal(err)
	}
	s := domain.Session{
		StartTime: sc.On(day),
		Status:    domain.SessionScheduled,
	}
	if end != "" {
		ec, err := ParseClock(end)
		if err != nil {
			t.Fatal(err)
		}
		s.EndTime = ec.On(day)
	}
	return s
}

func slotStarts(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.Format("15:04")
	}
	return out
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		hour    int
		minute  int
	}{
		{"09:00", false, 9, 0},
		{"23:59", false, 23, 59},
		{"00:00", false, 0, 0},
		{"24:00", true, 0, 0},
		{"09:60", true, 0, 0},
		{"9:00", true, 0, 0},
		{"0900", true, 0, 0},
		{"garbage", true, 0, 0},
		{"", true, 0, 0},
	}
	for _, tt := range tests {
		c, err := ParseClock(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %+v", tt.in, c)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if c.Hour != tt.hour || c.Minute != tt.minute {
			t.Errorf("ParseClock(%q) = %+v, want %02d:%02d", tt.in, c, tt.hour, tt.minute)
		}
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time { return Clock{h, m}.On(monday) }
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"partial overlap", Interval{at(10, 0), at(11, 0)}, Interval{at(10, 30), at(11, 30)}, true},
		{"containment", Interval{at(9, 0), at(12, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{"identical", Interval{at(10, 0), at(11, 0)}, Interval{at(10, 0), at(11, 0)}, true},
		{"adjacent before", Interval{at(9, 0), at(10, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{"adjacent after", Interval{at(11, 0), at(12, 0)}, Interval{at(10, 0), at(11, 0)}, false},
		{"disjoint", Interval{at(8, 0), at(9, 0)}, Interval{at(10, 0), at(11, 0)}, false},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
		// The predicate is symmetric.
		if got := Overlaps(tt.b, tt.a); got != tt.want {
			t.Errorf("%s (swapped): Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolveWindowNoRule(t *testing.T) {
	_, ok, err := ResolveWindow(monday, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no window when no weekly rule exists")
	}
}

func TestResolveWindowDisabledRule(t *testing.T) {
	rule := mondayRule("09:00", "12:00")
	rule.IsAvailable = false
	_, ok, err := ResolveWindow(monday, rule, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected no window when the weekly rule is disabled")
	}
}

func TestResolveWindowUnavailableExceptionWins(t *testing.T) {
	exc := &domain.AvailabilityException{Date: monday, IsAvailable: false, Reason: "holiday"}
	_, ok, err := ResolveWindow(monday, mondayRule("09:00", "12:00"), exc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("unavailable exception must override the weekly rule")
	}
}

func TestResolveWindowExceptionOverridesBoundsIndependently(t *testing.T) {
	lateStart := "10:00"
	exc := &domain.AvailabilityException{Date: monday, IsAvailable: true, StartTime: &lateStart}
	w, ok, err := ResolveWindow(monday, mondayRule("09:00", "12:00"), exc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected a window")
	}
	if got := w.Start.Format("15:04"); got != "10:00" {
		t.Errorf("window start = %s, want 10:00 (exception override)", got)
	}
	if got := w.End.Format("15:04"); got != "12:00" {
		t.Errorf("window end = %s, want 12:00 (untouched rule bound)", got)
	}
}

func TestResolveWindowMalformedTime(t *testing.T) {
	_, _, err := ResolveWindow(monday, mondayRule("9am", "12:00"), nil)
	if err == nil {
		t.Error("expected error for malformed rule start time")
	}
}

func TestGenerateSlotsExampleScenario(t *testing.T) {
	// Monday availability 09:00-12:00, one existing session 10:00-11:00,
	// requested duration 60 minutes. 09:30 would end 10:30 and collide;
	// 10:00 and 10:30 collide; 11:00 ends exactly at the window end.
	w, ok, err := ResolveWindow(monday, mondayRule("09:00", "12:00"), nil)
	if err != nil || !ok {
		t.Fatalf("ResolveWindow: ok=%v err=%v", ok, err)
	}
	sessions := []domain.Session{sessionAt(t, monday, "10:00", "11:00")}

	slots := GenerateSlots(w, sessions, 60*time.Minute)
	got := slotStarts(slots)
	want := []string{"09:00", "11:00"}
	if len(got) != len(want) {
		t.Fatalf("slot starts = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot starts = %v, want %v", got, want)
		}
	}
	for _, s := range slots {
		if s.Duration != 60 {
			t.Errorf("slot duration = %d, want 60", s.Duration)
		}
	}
}

func TestGenerateSlotsStayInsideWindow(t *testing.T) {
	w, ok, err := ResolveWindow(monday, mondayRule("09:00", "17:00"), nil)
	if err != nil || !ok {
		t.Fatalf("ResolveWindow: ok=%v err=%v", ok, err)
	}
	sessions := []domain.Session{
		sessionAt(t, monday, "10:00", "11:00"),
		sessionAt(t, monday, "14:30", "15:15"),
	}

	slots := GenerateSlots(w, sessions, 45*time.Minute)
	if len(slots) == 0 {
		t.Fatal("expected some slots")
	}
	for _, slot := range slots {
		if slot.StartTime.Before(w.Start) || slot.EndTime.After(w.End) {
			t.Errorf("slot [%s, %s) escapes window [%s, %s)",
				slot.StartTime.Format("15:04"), slot.EndTime.Format("15:04"),
				w.Start.Format("15:04"), w.End.Format("15:04"))
		}
		for _, sess := range sessions {
			if slot.StartTime.Before(sess.EffectiveEnd()) && slot.EndTime.After(sess.StartTime) {
				t.Errorf("slot starting %s overlaps session starting %s",
					slot.StartTime.Format("15:04"), sess.StartTime.Format("15:04"))
			}
		}
	}
}

func TestGenerateSlotsChronologicalAndIdempotent(t *testing.T) {
	w, ok, err := ResolveWindow(monday, mondayRule("08:00", "12:00"), nil)
	if err != nil || !ok {
		t.Fatalf("ResolveWindow: ok=%v err=%v", ok, err)
	}
	sessions := []domain.Session{sessionAt(t, monday, "09:00", "09:45")}

	first := GenerateSlots(w, sessions, 30*time.Minute)
	second := GenerateSlots(w, sessions, 30*time.Minute)

	if len(first) != len(second) {
		t.Fatalf("recomputation changed slot count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartTime.Equal(second[i].StartTime) || !first[i].EndTime.Equal(second[i].EndTime) {
			t.Fatalf("recomputation changed slot %d: %v vs %v", i, first[i], second[i])
		}
	}
	for i := 1; i < len(first); i++ {
		if !first[i-1].StartTime.Before(first[i].StartTime) {
			t.Errorf("slots not in chronological order at index %d", i)
		}
	}
}

func TestGenerateSlotsOpenEndedSessionDefaultsToOneHour(t *testing.T) {
	w, ok, err := ResolveWindow(monday, mondayRule("09:00", "12:00"), nil)
	if err != nil || !ok {
		t.Fatalf("ResolveWindow: ok=%v err=%v", ok, err)
	}
	// No end time recorded: the session occupies 10:00-11:00.
	sessions := []domain.Session{sessionAt(t, monday, "10:00", "")}

	got := slotStarts(GenerateSlots(w, sessions, 60*time.Minute))
	want := []string{"09:00", "11:00"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("slot starts = %v, want %v", got, want)
	}
}

func TestGenerateSlotsCancelledSessionFreesSlot(t *testing.T) {
	w, ok, err := ResolveWindow(monday, mondayRule("09:00", "11:00"), nil)
	if err != nil || !ok {
		t.Fatalf("ResolveWindow: ok=%v err=%v", ok, err)
	}
	cancelled := sessionAt(t, monday, "09:00", "10:00")
	cancelled.Status = domain.SessionCancelled

	got := slotStarts(GenerateSlots(w, []domain.Session{cancelled}, 60*time.Minute))
	want := []string{"09:00", "09:30", "10:00"}
	if len(got) != len(want) {
		t.Fatalf("slot starts = %v, want %v", got, want)
	}
}

func TestConflicts(t *testing.T) {
	existing := sessionAt(t, monday, "10:30", "11:30")
	at := func(h, m int) time.Time { return Clock{h, m}.On(monday) }

	tests := []struct {
		name     string
		proposed Interval
		want     int
	}{
		{"overlapping booking rejected", Interval{at(10, 0), at(11, 0)}, 1},
		{"earlier booking accepted", Interval{at(9, 0), at(10, 0)}, 0},
		{"touching end accepted", Interval{at(11, 30), at(12, 30)}, 0},
		{"containing booking rejected", Interval{at(10, 0), at(12, 0)}, 1},
	}
	for _, tt := range tests {
		got := Conflicts(tt.proposed, []domain.Session{existing})
		if len(got) != tt.want {
			t.Errorf("%s: got %d conflicts, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestConflictsIgnoresCancelled(t *testing.T) {
	cancelled := sessionAt(t, monday, "10:00", "11:00")
	cancelled.Status = domain.SessionCancelled
	at := func(h, m int) time.Time { return Clock{h, m}.On(monday) }

	if got := Conflicts(Interval{at(10, 0), at(11, 0)}, []domain.Session{cancelled}); len(got) != 0 {
		t.Errorf("cancelled session should not block: got %d conflicts", len(got))
	}
}
