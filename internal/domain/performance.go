package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExercisePerformance is one append-only history entry recorded after a
// completed exercise in a session. The progression calculator consumes
// these, newest first.
type ExercisePerformance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized for trainer-side queries
	Exercise  string             `bson:"exercise" json:"exercise"`
	Date      time.Time          `bson:"date" json:"date"`
	Weight    float64            `bson:"weight" json:"weight"` // kg
	Reps      int                `bson:"reps" json:"reps"`
	Sets      int                `bson:"sets" json:"sets"`
	RPE       float64            `bson:"rpe" json:"rpe"` // Rating of perceived exertion, 1-10
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
