package repository

import (
	"context"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
}

// AvailabilityRepository manages a trainer's weekly template and per-date
// exceptions.
type AvailabilityRepository interface {
	// ReplaceWeekly atomically swaps the trainer's whole weekly template
	// (delete-all, insert-new); there are no partial updates.
	ReplaceWeekly(ctx context.Context, trainerID primitive.ObjectID, rules []domain.WeeklyAvailability) error
	GetWeekly(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WeeklyAvailability, error)
	GetWeeklyByDay(ctx context.Context, trainerID primitive.ObjectID, dayOfWeek int) (*domain.WeeklyAvailability, error)

	// UpsertException keeps at most one exception per (trainer, date).
	UpsertException(ctx context.Context, exc *domain.AvailabilityException) error
	GetExceptionByDate(ctx context.Context, trainerID primitive.ObjectID, date time.Time) (*domain.AvailabilityException, error)
	GetExceptionsInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.AvailabilityException, error)
	DeleteException(ctx context.Context, trainerID primitive.ObjectID, date time.Time) error
}

// SessionRepository defines the interface for interacting with bookings.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetByTrainerInRange fetches sessions whose start falls in [from, to).
	GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) error
}

// ProgramRepository defines the interface for interacting with programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
}

// PerformanceRepository is the append-only exercise history log.
type PerformanceRepository interface {
	Create(ctx context.Context, entry *domain.ExercisePerformance) (primitive.ObjectID, error)
	// GetHistory returns entries for one client+exercise, newest first,
	// capped at limit (0 means no cap).
	GetHistory(ctx context.Context, clientID primitive.ObjectID, exercise string, limit int64) ([]domain.ExercisePerformance, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error)
}

// PhotoRepository stores progress photo metadata; files live in S3.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressPhoto, error)
}
