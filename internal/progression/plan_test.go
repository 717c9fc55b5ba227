package progression

import (
	"testing"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
)

func TestBuildPlanHorizonAndSchedule(t *testing.T) {
	current := Performance{Weight: 60, Reps: 10, Sets: 3, RPE: 7}
	plan := BuildPlan(current, domain.PhaseStrengthEndurance, domain.ExperienceAdvanced, 0, testNow)

	if len(plan) != 4 {
		t.Fatalf("plan length = %d, want 4", len(plan))
	}
	for i, wk := range plan {
		if wk.Week != i+1 {
			t.Errorf("week %d numbered %d", i, wk.Week)
		}
		want := testNow.AddDate(0, 0, 7*(i+1))
		if !wk.ScheduledFor.Equal(want) {
			t.Errorf("week %d scheduled %v, want %v", wk.Week, wk.ScheduledFor, want)
		}
		if wk.Deload {
			t.Errorf("advanced client should not deload before week 8, got deload at week %d", wk.Week)
		}
	}

	// Linear weight progression at the phase increment (2.5 kg).
	if plan[0].Weight != 62.5 || plan[3].Weight != 70 {
		t.Errorf("weights = %v %v, want 62.5 and 70", plan[0].Weight, plan[3].Weight)
	}
}

func TestBuildPlanDeloadCadenceByExperience(t *testing.T) {
	current := Performance{Weight: 80, Reps: 10, Sets: 4, RPE: 8}
	tests := []struct {
		level      domain.ExperienceLevel
		deloadWeek int // absolute week of first deload
	}{
		{domain.ExperienceBeginner, 4},
		{domain.ExperienceIntermediate, 6},
		{domain.ExperienceAdvanced, 8},
	}
	for _, tt := range tests {
		// Start the plan right before the expected deload week.
		plan := BuildPlan(current, domain.PhaseStrengthEndurance, tt.level, tt.deloadWeek-1, testNow)
		if !plan[0].Deload {
			t.Errorf("%s: week %d should be a deload", tt.level, tt.deloadWeek)
			continue
		}
		wk := plan[0]
		if wk.Weight != current.Weight*0.9 {
			t.Errorf("%s: deload weight = %v, want %v", tt.level, wk.Weight, current.Weight*0.9)
		}
		if wk.Reps != current.Reps+2 {
			t.Errorf("%s: deload reps = %d, want %d", tt.level, wk.Reps, current.Reps+2)
		}
		if wk.Sets != current.Sets-1 {
			t.Errorf("%s: deload sets = %d, want %d", tt.level, wk.Sets, current.Sets-1)
		}
		if wk.TargetRPE != 6 {
			t.Errorf("%s: deload RPE = %v, want 6", tt.level, wk.TargetRPE)
		}
		// Weeks after the deload resume progressing from the pre-deload weight.
		if plan[1].Deload {
			t.Errorf("%s: consecutive deload weeks", tt.level)
		}
		if plan[1].Weight != current.Weight+2.5 {
			t.Errorf("%s: post-deload weight = %v, want %v", tt.level, plan[1].Weight, current.Weight+2.5)
		}
	}
}

func TestBuildPlanUnknownLevelDefaultsToBeginner(t *testing.T) {
	current := Performance{Weight: 40, Reps: 12, Sets: 3, RPE: 6}
	plan := BuildPlan(current, domain.PhaseStabilizationEndurance, domain.ExperienceLevel(""), 3, testNow)
	if !plan[0].Deload {
		t.Error("empty experience level should use the beginner 4-week cadence")
	}
}

func TestBuildPlanClampsIntoGuidelineEnvelope(t *testing.T) {
	// 30 reps is outside every phase envelope; it must be clamped down.
	current := Performance{Weight: 20, Reps: 30, Sets: 9, RPE: 4}
	plan := BuildPlan(current, domain.PhaseStabilizationEndurance, domain.ExperienceAdvanced, 0, testNow)

	g := GuidelinesFor(domain.PhaseStabilizationEndurance)
	for _, wk := range plan {
		if wk.Reps > g.RepsMax || wk.Sets > g.SetsMax {
			t.Errorf("week %d escapes envelope: reps=%d sets=%d", wk.Week, wk.Reps, wk.Sets)
		}
	}
}
