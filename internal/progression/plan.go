package progression

import (
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
)

// planHorizonWeeks is how far ahead the bulk planner looks.
const planHorizonWeeks = 4

// Deload week adjustments: drop a tenth of the weight, allow two extra reps,
// cut one set, and cap effort at RPE 6.
const (
	deloadWeightFactor = 0.9
	deloadRepBonus     = 2
	deloadTargetRPE    = 6
)

// PlannedWeek is one week of the look-ahead plan produced by BuildPlan.
type PlannedWeek struct {
	Week         int       `json:"week"` // Absolute training week number
	Deload       bool      `json:"deload"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Sets         int       `json:"sets"`
	TargetRPE    float64   `json:"targetRpe"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// deloadCadenceWeeks returns how often a deload week recurs for a client.
// The cadence is driven solely by experience level; the per-phase
// FrequencyWeeks field plays no part here (see ProgressionRules).
func deloadCadenceWeeks(level domain.ExperienceLevel) int {
	switch level {
	case domain.ExperienceIntermediate:
		return 6
	case domain.ExperienceAdvanced:
		return 8
	default:
		return 4
	}
}

// BuildPlan generates a four-week look-ahead for one exercise: linear
// progression within the phase's guideline envelope, with a deload week
// injected whenever the absolute training week hits the experience-level
// cadence. weeksTrained is how many weeks the client has already completed.
func BuildPlan(current Performance, phase domain.Phase, level domain.ExperienceLevel, weeksTrained int, now time.Time) []PlannedWeek {
	current = clamp(current)
	g := GuidelinesFor(phase)
	cadence := deloadCadenceWeeks(level)
	targetRPE := (g.RPEMin + g.RPEMax) / 2

	reps := clampInt(current.Reps, g.RepsMin, g.RepsMax)
	sets := clampInt(current.Sets, g.SetsMin, g.SetsMax)

	plan := make([]PlannedWeek, 0, planHorizonWeeks)
	weight := current.Weight
	for i := 1; i <= planHorizonWeeks; i++ {
		week := weeksTrained + i
		scheduled := now.AddDate(0, 0, 7*i)

		if week%cadence == 0 {
			plan = append(plan, PlannedWeek{
				Week:         week,
				Deload:       true,
				Weight:       weight * deloadWeightFactor,
				Reps:         minInt(reps+deloadRepBonus, g.RepsMax),
				Sets:         maxInt(sets-1, 1),
				TargetRPE:    deloadTargetRPE,
				ScheduledFor: scheduled,
			})
			continue
		}

		weight += g.Rules.WeightIncrease
		plan = append(plan, PlannedWeek{
			Week:         week,
			Weight:       weight,
			Reps:         reps,
			Sets:         sets,
			TargetRPE:    targetRPE,
			ScheduledFor: scheduled,
		})
	}
	return plan
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
