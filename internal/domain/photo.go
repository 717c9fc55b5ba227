package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a progress picture a client uploaded.
// The actual file resides in S3; only the object key is kept here.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized so the trainer can list them
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`       // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	TakenAt     *time.Time         `bson:"takenAt,omitempty" json:"takenAt,omitempty"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
