package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeeklyAvailability is one recurring weekday rule in a trainer's template.
// The whole template is replaced atomically on save (delete-all, insert-new);
// there is no partial update and no history.
type WeeklyAvailability struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID         primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	DayOfWeek         int                `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime         string             `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime           string             `bson:"endTime" json:"endTime"`     // "HH:MM"
	IsAvailable       bool               `bson:"isAvailable" json:"isAvailable"`
	MaxSessionsPerDay int                `bson:"maxSessionsPerDay" json:"maxSessionsPerDay"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AvailabilityException overrides the weekly rule for one calendar date.
// An unavailable exception wins unconditionally; an available one may
// override either window bound independently.
type AvailabilityException struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Date        time.Time          `bson:"date" json:"date"` // Midnight, local day
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
	StartTime   *string            `bson:"startTime,omitempty" json:"startTime,omitempty"` // Optional "HH:MM" override
	EndTime     *string            `bson:"endTime,omitempty" json:"endTime,omitempty"`     // Optional "HH:MM" override
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
