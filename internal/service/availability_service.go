package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"
	"github.com/flackattacker/trainertracker-sub001/internal/scheduling"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidAvailability = errors.New("invalid availability rule")
	ErrExceptionNotFound   = errors.New("availability exception not found")
)

// AvailabilityService manages a trainer's weekly template, per-date
// exceptions, and the derived open-slot view.
type AvailabilityService interface {
	// SetWeeklyTemplate replaces the trainer's entire weekly template.
	SetWeeklyTemplate(ctx context.Context, trainerID primitive.ObjectID, rules []domain.WeeklyAvailability) ([]domain.WeeklyAvailability, error)
	GetWeeklyTemplate(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WeeklyAvailability, error)

	SetException(ctx context.Context, exc *domain.AvailabilityException) (*domain.AvailabilityException, error)
	GetExceptions(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.AvailabilityException, error)
	DeleteException(ctx context.Context, trainerID primitive.ObjectID, date time.Time) error

	// GetAvailableSlots resolves the trainer's bookable slots for one date.
	// A zero duration falls back to the default session length.
	GetAvailableSlots(ctx context.Context, trainerID primitive.ObjectID, date time.Time, duration time.Duration) ([]scheduling.TimeSlot, error)
}

// availabilityService implements the AvailabilityService interface.
type availabilityService struct {
	availRepo   repository.AvailabilityRepository
	sessionRepo repository.SessionRepository
}

// NewAvailabilityService creates a new instance of availabilityService.
func NewAvailabilityService(availRepo repository.AvailabilityRepository, sessionRepo repository.SessionRepository) AvailabilityService {
	return &availabilityService{
		availRepo:   availRepo,
		sessionRepo: sessionRepo,
	}
}

// validateRule checks a single weekly rule: weekday range and well-formed,
// ordered HH:MM bounds.
func validateRule(rule *domain.WeeklyAvailability) error {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek %d out of range 0-6", ErrInvalidAvailability, rule.DayOfWeek)
	}
	start, err := scheduling.ParseClock(rule.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}
	end, err := scheduling.ParseClock(rule.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
	}
	if end.Hour*60+end.Minute <= start.Hour*60+start.Minute {
		return fmt.Errorf("%w: endTime %s not after startTime %s", ErrInvalidAvailability, rule.EndTime, rule.StartTime)
	}
	if rule.MaxSessionsPerDay < 0 {
		return fmt.Errorf("%w: maxSessionsPerDay cannot be negative", ErrInvalidAvailability)
	}
	return nil
}

// SetWeeklyTemplate validates and atomically replaces the whole template.
func (s *availabilityService) SetWeeklyTemplate(ctx context.Context, trainerID primitive.ObjectID, rules []domain.WeeklyAvailability) ([]domain.WeeklyAvailability, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}

	seen := make(map[int]bool, len(rules))
	for i := range rules {
		rules[i].TrainerID = trainerID
		if err := validateRule(&rules[i]); err != nil {
			return nil, err
		}
		if seen[rules[i].DayOfWeek] {
			return nil, fmt.Errorf("%w: duplicate rule for dayOfWeek %d", ErrInvalidAvailability, rules[i].DayOfWeek)
		}
		seen[rules[i].DayOfWeek] = true
	}

	if err := s.availRepo.ReplaceWeekly(ctx, trainerID, rules); err != nil {
		return nil, err
	}
	return s.availRepo.GetWeekly(ctx, trainerID)
}

// GetWeeklyTemplate returns the trainer's current weekly rules.
func (s *availabilityService) GetWeeklyTemplate(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WeeklyAvailability, error) {
	return s.availRepo.GetWeekly(ctx, trainerID)
}

// SetException validates and upserts a per-date override. At most one
// exception exists per (trainer, date); a second write replaces the first.
func (s *availabilityService) SetException(ctx context.Context, exc *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	if exc.TrainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	if exc.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidAvailability)
	}
	// Window overrides are only meaningful on an available exception.
	if exc.IsAvailable {
		if exc.StartTime != nil {
			if _, err := scheduling.ParseClock(*exc.StartTime); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
			}
		}
		if exc.EndTime != nil {
			if _, err := scheduling.ParseClock(*exc.EndTime); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAvailability, err)
			}
		}
	} else {
		exc.StartTime = nil
		exc.EndTime = nil
	}

	if err := s.availRepo.UpsertException(ctx, exc); err != nil {
		return nil, err
	}
	return s.availRepo.GetExceptionByDate(ctx, exc.TrainerID, exc.Date)
}

// GetExceptions lists exceptions whose date falls in [from, to).
func (s *availabilityService) GetExceptions(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.AvailabilityException, error) {
	return s.availRepo.GetExceptionsInRange(ctx, trainerID, from, to)
}

// DeleteException removes the override for one date, restoring the weekly rule.
func (s *availabilityService) DeleteException(ctx context.Context, trainerID primitive.ObjectID, date time.Time) error {
	err := s.availRepo.DeleteException(ctx, trainerID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExceptionNotFound
	}
	return err
}

// GetAvailableSlots computes the open slots for one trainer and date:
// weekly rule, then exception override, minus committed sessions.
func (s *availabilityService) GetAvailableSlots(ctx context.Context, trainerID primitive.ObjectID, date time.Time, duration time.Duration) ([]scheduling.TimeSlot, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	if duration <= 0 {
		duration = domain.DefaultSessionLength
	}

	rule, err := s.availRepo.GetWeeklyByDay(ctx, trainerID, int(date.Weekday()))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	exc, err := s.availRepo.GetExceptionByDate(ctx, trainerID, date)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	window, ok, err := scheduling.ResolveWindow(date, rule, exc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []scheduling.TimeSlot{}, nil
	}

	dayStart, dayEnd := scheduling.DayBounds(date)
	sessions, err := s.sessionRepo.GetByTrainerInRange(ctx, trainerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return scheduling.GenerateSlots(window, sessions, duration), nil
}
