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

const (
	weeklyCollectionName    = "weekly_availability"
	exceptionCollectionName = "availability_exceptions"
)

// mongoAvailabilityRepository implements repository.AvailabilityRepository.
type mongoAvailabilityRepository struct {
	weekly     *mongo.Collection
	exceptions *mongo.Collection
}

// NewMongoAvailabilityRepository creates an availability repository backed by MongoDB.
func NewMongoAvailabilityRepository(db *mongo.Database) repository.AvailabilityRepository {
	return &mongoAvailabilityRepository{
		weekly:     db.Collection(weeklyCollectionName),
		exceptions: db.Collection(exceptionCollectionName),
	}
}

// ReplaceWeekly swaps the trainer's whole weekly template. The template has
// no partial-update semantics: every save deletes the old rows and inserts
// the new set.
func (r *mongoAvailabilityRepository) ReplaceWeekly(ctx context.Context, trainerID primitive.ObjectID, rules []domain.WeeklyAvailability) error {
	if trainerID == primitive.NilObjectID {
		return errors.New("trainer ID is required")
	}

	if _, err := r.weekly.DeleteMany(ctx, bson.M{"trainerId": trainerID}); err != nil {
		return err
	}
	if len(rules) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(rules))
	for i := range rules {
		rules[i].ID = primitive.NewObjectID()
		rules[i].TrainerID = trainerID
		rules[i].CreatedAt = now
		rules[i].UpdatedAt = now
		docs[i] = rules[i]
	}

	_, err := r.weekly.InsertMany(ctx, docs)
	return err
}

// GetWeekly retrieves the trainer's full weekly template, ordered by weekday.
func (r *mongoAvailabilityRepository) GetWeekly(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WeeklyAvailability, error) {
	var rules []domain.WeeklyAvailability
	filter := bson.M{"trainerId": trainerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "startTime", Value: 1}})

	cursor, err := r.weekly.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// GetWeeklyByDay retrieves the trainer's rule for one weekday. Missing rule
// maps to ErrNotFound; the caller treats that as "no availability", not a
// failure.
func (r *mongoAvailabilityRepository) GetWeeklyByDay(ctx context.Context, trainerID primitive.ObjectID, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	var rule domain.WeeklyAvailability
	filter := bson.M{"trainerId": trainerID, "dayOfWeek": dayOfWeek}

	err := r.weekly.FindOne(ctx, filter).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// UpsertException inserts or replaces the exception for (trainer, date).
// The unique index on that pair keeps at most one exception per date.
func (r *mongoAvailabilityRepository) UpsertException(ctx context.Context, exc *domain.AvailabilityException) error {
	if exc.TrainerID == primitive.NilObjectID {
		return errors.New("trainer ID is required")
	}

	now := time.Now().UTC()
	exc.Date = truncateToDay(exc.Date)
	exc.UpdatedAt = now

	filter := bson.M{"trainerId": exc.TrainerID, "date": exc.Date}
	update := bson.M{
		"$set": bson.M{
			"isAvailable": exc.IsAvailable,
			"startTime":   exc.StartTime,
			"endTime":     exc.EndTime,
			"reason":      exc.Reason,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"trainerId": exc.TrainerID,
			"date":      exc.Date,
			"createdAt": now,
		},
	}

	_, err := r.exceptions.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetExceptionByDate retrieves the exception for one calendar date, if any.
func (r *mongoAvailabilityRepository) GetExceptionByDate(ctx context.Context, trainerID primitive.ObjectID, date time.Time) (*domain.AvailabilityException, error) {
	var exc domain.AvailabilityException
	filter := bson.M{"trainerId": trainerID, "date": truncateToDay(date)}

	err := r.exceptions.FindOne(ctx, filter).Decode(&exc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exc, nil
}

// GetExceptionsInRange retrieves exceptions with date in [from, to).
func (r *mongoAvailabilityRepository) GetExceptionsInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.AvailabilityException, error) {
	var excs []domain.AvailabilityException
	filter := bson.M{
		"trainerId": trainerID,
		"date":      bson.M{"$gte": truncateToDay(from), "$lt": truncateToDay(to)},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.exceptions.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &excs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return excs, nil
}

// DeleteException removes the exception for one calendar date.
func (r *mongoAvailabilityRepository) DeleteException(ctx context.Context, trainerID primitive.ObjectID, date time.Time) error {
	filter := bson.M{"trainerId": trainerID, "date": truncateToDay(date)}
	result, err := r.exceptions.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// truncateToDay normalizes a timestamp to midnight so (trainer, date)
// lookups always compare equal values.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EnsureAvailabilityIndexes creates indexes for both availability collections.
// Call this once during application startup.
func EnsureAvailabilityIndexes(ctx context.Context, weekly, exceptions *mongo.Collection) {
	weeklyIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "dayOfWeek", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = weekly.Indexes().CreateMany(ctx, weeklyIndexes)

	exceptionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true), // One exception per date
		},
	}
	_, _ = exceptions.Indexes().CreateMany(ctx, exceptionIndexes)
}
