package progression

import (
	"github.com/flackattacker/trainertracker-sub001/internal/domain"
)

// ProgressionRules holds the per-phase increment sizes applied when the
// calculator decides to progress a prescription.
//
// FrequencyWeeks models the phase's intended progression cadence (1 = weekly,
// 2 = bi-weekly). It is configuration only: the single-recommendation
// calculator always schedules the next session seven days out, and the bulk
// planner derives its deload cadence from the client's experience level
// instead. Kept so trainers can see the intended cadence per phase.
type ProgressionRules struct {
	WeightIncrease float64 `json:"weightIncrease"` // kg
	RepIncrease    int     `json:"repIncrease"`
	VolumeIncrease int     `json:"volumeIncrease"` // sets
	FrequencyWeeks int     `json:"frequencyWeeks"`
}

// Guidelines is the static per-phase prescription envelope. Configuration
// data, never mutated at runtime.
type Guidelines struct {
	Phase        domain.Phase     `json:"phase"`
	SetsMin      int              `json:"setsMin"`
	SetsMax      int              `json:"setsMax"`
	RepsMin      int              `json:"repsMin"`
	RepsMax      int              `json:"repsMax"`
	IntensityMin float64          `json:"intensityMin"` // % of 1RM
	IntensityMax float64          `json:"intensityMax"`
	RPEMin       float64          `json:"rpeMin"`
	RPEMax       float64          `json:"rpeMax"`
	Rules        ProgressionRules `json:"progressionRules"`
}

var phaseGuidelines = map[domain.Phase]Guidelines{
	domain.PhaseStabilizationEndurance: {
		Phase:   domain.PhaseStabilizationEndurance,
		SetsMin: 1, SetsMax: 3,
		RepsMin: 12, RepsMax: 20,
		IntensityMin: 50, IntensityMax: 70,
		RPEMin: 3, RPEMax: 5,
		Rules: ProgressionRules{WeightIncrease: 2.5, RepIncrease: 2, VolumeIncrease: 1, FrequencyWeeks: 1},
	},
	domain.PhaseStrengthEndurance: {
		Phase:   domain.PhaseStrengthEndurance,
		SetsMin: 2, SetsMax: 4,
		RepsMin: 8, RepsMax: 12,
		IntensityMin: 70, IntensityMax: 80,
		RPEMin: 6, RPEMax: 8,
		Rules: ProgressionRules{WeightIncrease: 2.5, RepIncrease: 1, VolumeIncrease: 1, FrequencyWeeks: 1},
	},
	domain.PhaseMuscularDevelopment: {
		Phase:   domain.PhaseMuscularDevelopment,
		SetsMin: 3, SetsMax: 6,
		RepsMin: 6, RepsMax: 12,
		IntensityMin: 75, IntensityMax: 85,
		RPEMin: 7, RPEMax: 9,
		Rules: ProgressionRules{WeightIncrease: 2.5, RepIncrease: 1, VolumeIncrease: 1, FrequencyWeeks: 1},
	},
	domain.PhaseMaximalStrength: {
		Phase:   domain.PhaseMaximalStrength,
		SetsMin: 4, SetsMax: 6,
		RepsMin: 1, RepsMax: 5,
		IntensityMin: 85, IntensityMax: 100,
		RPEMin: 8, RPEMax: 10,
		Rules: ProgressionRules{WeightIncrease: 5, RepIncrease: 1, VolumeIncrease: 1, FrequencyWeeks: 2},
	},
	domain.PhasePower: {
		Phase:   domain.PhasePower,
		SetsMin: 3, SetsMax: 5,
		RepsMin: 1, RepsMax: 10,
		IntensityMin: 30, IntensityMax: 45,
		RPEMin: 6, RPEMax: 9,
		Rules: ProgressionRules{WeightIncrease: 2.5, RepIncrease: 1, VolumeIncrease: 1, FrequencyWeeks: 2},
	},
}

// GuidelinesFor returns the guideline envelope for a phase. An unknown or
// empty phase falls back to stabilization endurance, the most conservative
// set of ranges.
func GuidelinesFor(phase domain.Phase) Guidelines {
	if g, ok := phaseGuidelines[phase]; ok {
		return g
	}
	return phaseGuidelines[domain.PhaseStabilizationEndurance]
}

// AllGuidelines returns the full phase table, keyed by phase name. Handlers
// expose this so the UI can render the envelope alongside recommendations.
func AllGuidelines() map[domain.Phase]Guidelines {
	out := make(map[domain.Phase]Guidelines, len(phaseGuidelines))
	for k, v := range phaseGuidelines {
		out[k] = v
	}
	return out
}
