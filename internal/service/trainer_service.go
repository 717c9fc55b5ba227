package service

import (
	"context"
	"errors"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

// TrainerService covers the trainer-side roster and performance logging.
type TrainerService interface {
	// Client Management
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	VerifyClientManaged(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error)

	// Performance Logging
	RecordPerformance(ctx context.Context, trainerID, clientID primitive.ObjectID, exercise string, date time.Time, weight float64, reps, sets int, rpe float64) (*domain.ExercisePerformance, error)
	GetClientPerformance(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo repository.UserRepository
	perfRepo repository.PerformanceRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(userRepo repository.UserRepository, perfRepo repository.PerformanceRepository) TrainerService {
	return &trainerService{
		userRepo: userRepo,
		perfRepo: perfRepo,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and assigns them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already managed by this trainer; treat as success.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Assign client to trainer (update both records).
	err = s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID)
	if err != nil {
		return nil, err
	}
	err = s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID)
	if err != nil {
		// No transaction here; the trainer's roster may briefly hold a client
		// whose back-reference failed. A retry of AddClientByEmail repairs it.
		return nil, err
	}

	client.TrainerID = &trainerID
	client.PasswordHash = ""
	return client, nil
}

// GetManagedClients retrieves the list of clients managed by the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// VerifyClientManaged loads the client and confirms the trainer manages them.
// Other services lean on this for their authorization checks.
func (s *trainerService) VerifyClientManaged(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsClient() {
		return nil, ErrClientNotRole
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}
	return client, nil
}

// === Performance Logging ===

// RecordPerformance appends one exercise history entry for a managed client.
func (s *trainerService) RecordPerformance(ctx context.Context, trainerID, clientID primitive.ObjectID, exercise string, date time.Time, weight float64, reps, sets int, rpe float64) (*domain.ExercisePerformance, error) {
	if exercise == "" {
		return nil, errors.New("exercise name is required")
	}
	if reps < 0 || sets < 0 || weight < 0 || rpe < 0 || rpe > 10 {
		return nil, errors.New("performance values out of range")
	}

	if _, err := s.VerifyClientManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now()
	}
	entry := &domain.ExercisePerformance{
		ClientID:  clientID,
		TrainerID: trainerID,
		Exercise:  exercise,
		Date:      date,
		Weight:    weight,
		Reps:      reps,
		Sets:      sets,
		RPE:       rpe,
	}

	entryID, err := s.perfRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = entryID
	return entry, nil
}

// GetClientPerformance returns a managed client's full history, newest first.
func (s *trainerService) GetClientPerformance(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error) {
	if _, err := s.VerifyClientManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.perfRepo.GetByClientID(ctx, clientID)
}
