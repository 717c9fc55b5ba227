package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the booking lifecycle
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
	SessionNoShow    SessionStatus = "no_show"
)

// SessionType describes what kind of session was booked.
type SessionType string

const (
	SessionTypeTraining   SessionType = "training"
	SessionTypeAssessment SessionType = "assessment"
	SessionTypeCheckIn    SessionType = "check_in"
)

// Session is a committed booking between a trainer and a client.
// The availability resolver must never emit a slot overlapping one of these.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"` // Zero value means "unset"; treated as start+60m
	Status    SessionStatus      `bson:"status" json:"status"`
	Type      SessionType        `bson:"type" json:"type"`
	Location  string             `bson:"location,omitempty" json:"location,omitempty"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSessionLength is assumed when a session has no recorded end time.
const DefaultSessionLength = time.Hour

// EffectiveEnd returns the session end, defaulting to DefaultSessionLength
// after the start when no end time was recorded.
func (s *Session) EffectiveEnd() time.Time {
	if s.EndTime.IsZero() {
		return s.StartTime.Add(DefaultSessionLength)
	}
	return s.EndTime
}

// Blocks reports whether the session still occupies its time window.
// Cancelled sessions free their slot.
func (s *Session) Blocks() bool {
	return s.Status != SessionCancelled
}
