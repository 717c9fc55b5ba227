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

const photoCollectionName = "progress_photos"

// mongoPhotoRepository implements repository.PhotoRepository
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a progress photo repository backed by MongoDB.
func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts progress photo metadata after the client confirmed the
// S3 upload.
func (r *mongoPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.ClientID == primitive.NilObjectID || photo.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("client ID and object key are required")
	}

	photo.ID = primitive.NewObjectID()
	photo.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves photo metadata by ID.
func (r *mongoPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// GetByClientID retrieves a client's photos, newest first.
func (r *mongoPhotoRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	var photos []domain.ProgressPhoto
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return photos, nil
}

// EnsurePhotoIndexes creates indexes for the progress photos collection.
// Call this once during application startup.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "uploadedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
