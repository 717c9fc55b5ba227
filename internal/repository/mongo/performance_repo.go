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

const performanceCollectionName = "exercise_performance"

// mongoPerformanceRepository implements repository.PerformanceRepository.
// The collection is append-only: entries are never updated or deleted.
type mongoPerformanceRepository struct {
	collection *mongo.Collection
}

// NewMongoPerformanceRepository creates a performance history repository backed by MongoDB.
func NewMongoPerformanceRepository(db *mongo.Database) repository.PerformanceRepository {
	return &mongoPerformanceRepository{
		collection: db.Collection(performanceCollectionName),
	}
}

// Create appends one performance entry.
func (r *mongoPerformanceRepository) Create(ctx context.Context, entry *domain.ExercisePerformance) (primitive.ObjectID, error) {
	if entry.ClientID == primitive.NilObjectID || entry.Exercise == "" {
		return primitive.NilObjectID, errors.New("client ID and exercise name are required")
	}

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = entry.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetHistory returns a client's history for one exercise, newest first.
// The progression calculator relies on that ordering for its recent window.
func (r *mongoPerformanceRepository) GetHistory(ctx context.Context, clientID primitive.ObjectID, exercise string, limit int64) ([]domain.ExercisePerformance, error) {
	filter := bson.M{"clientId": clientID, "exercise": exercise}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	return r.find(ctx, filter, findOptions)
}

// GetByClientID returns a client's full history across exercises, newest first.
func (r *mongoPerformanceRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error) {
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.find(ctx, filter, findOptions)
}

func (r *mongoPerformanceRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.ExercisePerformance, error) {
	var entries []domain.ExercisePerformance

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsurePerformanceIndexes creates indexes for the performance collection.
// Call this once during application startup.
func EnsurePerformanceIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "exercise", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
