package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Phase names follow the NASM OPT model.
type Phase string

const (
	PhaseStabilizationEndurance Phase = "stabilization_endurance"
	PhaseStrengthEndurance      Phase = "strength_endurance"
	PhaseMuscularDevelopment    Phase = "muscular_development"
	PhaseMaximalStrength        Phase = "maximal_strength"
	PhasePower                  Phase = "power"
)

// Prescription is one exercise line inside a program: what the client
// should lift, for how many sets and reps.
type Prescription struct {
	Exercise string  `bson:"exercise" json:"exercise"`
	Sets     int     `bson:"sets" json:"sets"`
	Reps     int     `bson:"reps" json:"reps"`
	Weight   float64 `bson:"weight" json:"weight"` // kg; 0 for bodyweight
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Program is a training program a trainer builds for one client.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Phase         Phase              `bson:"phase" json:"phase"`
	Prescriptions []Prescription     `bson:"prescriptions" json:"prescriptions"`
	StartDate     *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
