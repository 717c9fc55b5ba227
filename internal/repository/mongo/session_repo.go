package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a session repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session booking.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.TrainerID == primitive.NilObjectID || session.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("trainer ID and client ID are required")
	}
	if session.StartTime.IsZero() {
		return primitive.NilObjectID, errors.New("session start time is required")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByTrainerInRange fetches the trainer's sessions starting in [from, to).
// The availability resolver uses this with local day boundaries.
func (r *mongoSessionRepository) GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	filter := bson.M{
		"trainerId": trainerID,
		"startTime": bson.M{"$gte": from, "$lt": to},
	}
	return r.find(ctx, filter)
}

// GetByTrainerID retrieves all sessions for a trainer, newest first.
func (r *mongoSessionRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// GetByClientID retrieves all sessions for a client, newest first.
func (r *mongoSessionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

func (r *mongoSessionRepository) find(ctx context.Context, filter bson.M) ([]domain.Session, error) {
	var sessions []domain.Session
	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateStatus changes a session's lifecycle status (e.g. to cancelled,
// which frees its slot for the resolver).
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates indexes for the sessions collection.
// Call this once during application startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The hot path: trainer's sessions for one day.
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "startTime", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
