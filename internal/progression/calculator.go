package progression

import (
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
)

// RecommendationType says which training variable the calculator wants to move.
type RecommendationType string

const (
	RecommendWeight RecommendationType = "weight"
	RecommendReps   RecommendationType = "reps"
	RecommendVolume RecommendationType = "volume" // sets
)

// Confidence grades how much history backs the recommendation.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// recentWindow is how many of the latest history entries the stability and
// RPE checks look at.
const recentWindow = 3

// nextSessionInterval is the fixed scheduling horizon for the next session.
// Phase-specific cadence lives in ProgressionRules.FrequencyWeeks but is
// configuration only; see that field's doc comment.
const nextSessionInterval = 7 * 24 * time.Hour

// Performance is one exercise history sample as the calculator sees it.
type Performance struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Sets   int       `json:"sets"`
	RPE    float64   `json:"rpe"`
}

// Recommendation is the calculator's output: a single prescription delta.
// Pure function output, not persisted as its own entity.
type Recommendation struct {
	Type             RecommendationType `json:"type"`
	CurrentValue     float64            `json:"currentValue"`
	RecommendedValue float64            `json:"recommendedValue"`
	Increase         float64            `json:"increase"`
	Percentage       float64            `json:"percentage"`
	Reason           string             `json:"reason"`
	Confidence       Confidence         `json:"confidence"`
	NextSessionDate  time.Time          `json:"nextSessionDate"`
}

// Recommend turns an exercise's performance history into a next-session
// prescription delta. Stateless: every call recomputes from its inputs.
//
// history must be ordered newest first (the repository returns it that way).
// now injects the wall clock so tests stay deterministic.
func Recommend(current Performance, phase domain.Phase, history []Performance, now time.Time) Recommendation {
	current = clamp(current)
	g := GuidelinesFor(phase)

	if len(history) < 2 {
		return finish(Recommendation{
			Type:             RecommendWeight,
			CurrentValue:     current.Weight,
			RecommendedValue: current.Weight,
			Reason:           "insufficient data to recommend a change",
			Confidence:       ConfidenceLow,
		}, now)
	}

	recent := history
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}

	var rpeSum float64
	weightStable, repStable := true, true
	for _, h := range recent {
		h = clamp(h)
		rpeSum += h.RPE
		if h.Weight != current.Weight {
			weightStable = false
		}
		if h.Reps != current.Reps {
			repStable = false
		}
	}
	avgRPE := rpeSum / float64(len(recent))

	switch {
	case phase == domain.PhaseStabilizationEndurance && avgRPE <= 5 && repStable:
		return finish(Recommendation{
			Type:             RecommendReps,
			CurrentValue:     float64(current.Reps),
			RecommendedValue: float64(minInt(current.Reps+g.Rules.RepIncrease, g.RepsMax)),
			Reason:           "low RPE indicates capacity for increased reps",
			Confidence:       ConfidenceHigh,
		}, now)

	case (phase == domain.PhaseStrengthEndurance || phase == domain.PhaseMuscularDevelopment) &&
		avgRPE >= 7 && weightStable && repStable:
		return finish(Recommendation{
			Type:             RecommendWeight,
			CurrentValue:     current.Weight,
			RecommendedValue: current.Weight + g.Rules.WeightIncrease,
			Reason:           "high RPE and consistent performance support a weight increase",
			Confidence:       ConfidenceHigh,
		}, now)

	default:
		// Covers maximal strength and power too, which have no explicit branch.
		return finish(Recommendation{
			Type:             RecommendVolume,
			CurrentValue:     float64(current.Sets),
			RecommendedValue: float64(minInt(current.Sets+1, g.SetsMax)),
			Reason:           "maintain weight and reps, increase volume",
			Confidence:       ConfidenceMedium,
		}, now)
	}
}

// finish fills the derived fields shared by every branch.
func finish(r Recommendation, now time.Time) Recommendation {
	r.Increase = r.RecommendedValue - r.CurrentValue
	base := r.CurrentValue
	if base == 0 {
		base = 1
	}
	r.Percentage = r.Increase / base * 100
	r.NextSessionDate = now.Add(nextSessionInterval)
	return r
}

// clamp rejects non-physical history values: negative weight, reps, sets or
// RPE are floored at zero rather than propagated into recommendations.
func clamp(p Performance) Performance {
	if p.Weight < 0 {
		p.Weight = 0
	}
	if p.Reps < 0 {
		p.Reps = 0
	}
	if p.Sets < 0 {
		p.Sets = 0
	}
	if p.RPE < 0 {
		p.RPE = 0
	}
	if p.RPE > 10 {
		p.RPE = 10
	}
	return p
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
