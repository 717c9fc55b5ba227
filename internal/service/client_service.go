package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"
	"github.com/flackattacker/trainertracker-sub001/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPhotoNotFound      = errors.New("progress photo not found")
	ErrPhotoAccessDenied  = errors.New("access denied to this photo")
	ErrNoTrainerAssigned  = errors.New("client has no trainer assigned")
	ErrInvalidContentType = errors.New("invalid or missing image content type")
	ErrUploadURLError     = errors.New("failed to generate upload URL")
	ErrDownloadURLError   = errors.New("failed to generate download URL")
)

// UploadURLResponse structure for returning URL and object key.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// PhotoDetails is a photo plus a temporary download URL.
type PhotoDetails struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// ClientService covers the client-side surface: progress photos and
// read-only views of the client's own data.
type ClientService interface {
	// Photo Upload Process
	RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string, takenAt *time.Time) (*domain.ProgressPhoto, error)

	// Photo Viewing
	GetMyPhotos(ctx context.Context, clientID primitive.ObjectID) ([]PhotoDetails, error)
	GetClientPhotos(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]PhotoDetails, error)

	// History Viewing
	GetMyPerformance(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	userRepo    repository.UserRepository
	photoRepo   repository.PhotoRepository
	perfRepo    repository.PerformanceRepository
	fileStorage storage.FileStorage
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	userRepo repository.UserRepository,
	photoRepo repository.PhotoRepository,
	perfRepo repository.PerformanceRepository,
	fileStorage storage.FileStorage,
) ClientService {
	return &clientService{
		userRepo:    userRepo,
		photoRepo:   photoRepo,
		perfRepo:    perfRepo,
		fileStorage: fileStorage,
	}
}

// === Photo Upload Process ===

// RequestPhotoUploadURL generates a pre-signed URL for a client to upload a
// progress photo directly to S3.
func (s *clientService) RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidContentType
	}

	// Unique object key so repeated uploads never collide.
	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", clientID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhotoUpload records the photo metadata after the client has PUT the
// file to S3 with the pre-signed URL.
func (s *clientService) ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string, takenAt *time.Time) (*domain.ProgressPhoto, error) {
	if clientID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("client ID and object key are required")
	}
	// The key must live under this client's prefix; anything else is a
	// confirmation for someone else's upload.
	if !strings.HasPrefix(objectKey, path.Join("photos", clientID.Hex())+"/") {
		return nil, ErrPhotoAccessDenied
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.TrainerID == nil || *client.TrainerID == primitive.NilObjectID {
		return nil, ErrNoTrainerAssigned
	}

	photo := &domain.ProgressPhoto{
		ClientID:    clientID,
		TrainerID:   *client.TrainerID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
		TakenAt:     takenAt,
		// ID, UploadedAt set by repository
	}

	photoID, err := s.photoRepo.Create(ctx, photo)
	if err != nil {
		return nil, err
	}
	photo.ID = photoID
	return photo, nil
}

// === Photo Viewing ===

// GetMyPhotos lists the client's own photos with temporary download URLs.
func (s *clientService) GetMyPhotos(ctx context.Context, clientID primitive.ObjectID) ([]PhotoDetails, error) {
	photos, err := s.photoRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURLs(ctx, photos)
}

// GetClientPhotos lists a managed client's photos for their trainer.
func (s *clientService) GetClientPhotos(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]PhotoDetails, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}

	photos, err := s.photoRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURLs(ctx, photos)
}

// withDownloadURLs enriches photo metadata with pre-signed download URLs.
func (s *clientService) withDownloadURLs(ctx context.Context, photos []domain.ProgressPhoto) ([]PhotoDetails, error) {
	details := make([]PhotoDetails, 0, len(photos))
	for _, p := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, p.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, ErrDownloadURLError
		}
		details = append(details, PhotoDetails{ProgressPhoto: p, DownloadURL: url})
	}
	return details, nil
}

// === History Viewing ===

// GetMyPerformance returns the client's own exercise history, newest first.
func (s *clientService) GetMyPerformance(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error) {
	return s.perfRepo.GetByClientID(ctx, clientID)
}
