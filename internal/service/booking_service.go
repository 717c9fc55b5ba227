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
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionAccessDenied = errors.New("access denied to this session")
	ErrSessionConflict     = errors.New("session conflicts with an existing booking")
	ErrInvalidSessionTime  = errors.New("invalid session time")
	ErrInvalidTransition   = errors.New("invalid session status transition")
)

// maxSessionSpill bounds how far a stored session may extend past its start
// time; the conflict check pads its fetch window by this much.
const maxSessionSpill = 24 * time.Hour

// ConflictError carries the sessions a proposed booking collides with so the
// API layer can return them alongside the 409.
type ConflictError struct {
	Conflicts []domain.Session
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v (%d overlapping)", ErrSessionConflict, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error {
	return ErrSessionConflict
}

// BookingService manages the session lifecycle: scheduling with conflict
// detection, status updates, and listing.
type BookingService interface {
	ScheduleSession(ctx context.Context, trainerID primitive.ObjectID, req ScheduleRequest) (*domain.Session, error)
	GetSession(ctx context.Context, requesterID primitive.ObjectID, sessionID primitive.ObjectID) (*domain.Session, error)
	GetTrainerSessions(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error)
	GetClientSessions(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error)
	UpdateSessionStatus(ctx context.Context, requesterID, sessionID primitive.ObjectID, status domain.SessionStatus) (*domain.Session, error)
}

// ScheduleRequest is the booking input. A zero EndTime means the session
// runs for the default length.
type ScheduleRequest struct {
	ClientID  primitive.ObjectID
	StartTime time.Time
	EndTime   time.Time
	Type      domain.SessionType
	Location  string
	Notes     string
}

// bookingService implements the BookingService interface.
type bookingService struct {
	sessionRepo repository.SessionRepository
	trainerSvc  TrainerService
}

// NewBookingService creates a new instance of bookingService.
func NewBookingService(sessionRepo repository.SessionRepository, trainerSvc TrainerService) BookingService {
	return &bookingService{
		sessionRepo: sessionRepo,
		trainerSvc:  trainerSvc,
	}
}

// ScheduleSession books a session after re-checking for overlaps at commit
// time. The conflict check and the insert are not atomic; two bookings that
// race past the check can both land, and the availability view simply stops
// offering the doubled window afterwards.
func (s *bookingService) ScheduleSession(ctx context.Context, trainerID primitive.ObjectID, req ScheduleRequest) (*domain.Session, error) {
	if trainerID == primitive.NilObjectID || req.ClientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}
	if req.StartTime.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrInvalidSessionTime)
	}
	if !req.EndTime.IsZero() && !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidSessionTime)
	}
	if req.Type == "" {
		req.Type = domain.SessionTypeTraining
	}

	if _, err := s.trainerSvc.VerifyClientManaged(ctx, trainerID, req.ClientID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		TrainerID: trainerID,
		ClientID:  req.ClientID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    domain.SessionScheduled,
		Type:      req.Type,
		Location:  req.Location,
		Notes:     req.Notes,
	}

	// Commit-time conflict check. Sessions are stored and queried by start
	// time, so the fetch window reaches back by the maximum session length
	// to catch an earlier booking (possibly from the previous day) that
	// spills into the proposed interval. Anything starting at or after the
	// proposed end cannot overlap a half-open interval.
	proposed := scheduling.Interval{Start: session.StartTime, End: session.EffectiveEnd()}
	existing, err := s.sessionRepo.GetByTrainerInRange(ctx, trainerID, proposed.Start.Add(-maxSessionSpill), proposed.End)
	if err != nil {
		return nil, err
	}
	if conflicts := scheduling.Conflicts(proposed, existing); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = sessionID
	return session, nil
}

// GetSession fetches one session; only its trainer or its client may see it.
func (s *bookingService) GetSession(ctx context.Context, requesterID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.TrainerID != requesterID && session.ClientID != requesterID {
		return nil, ErrSessionAccessDenied
	}
	return session, nil
}

// GetTrainerSessions lists every session the trainer has booked.
func (s *bookingService) GetTrainerSessions(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.GetByTrainerID(ctx, trainerID)
}

// GetClientSessions lists every session booked for the client.
func (s *bookingService) GetClientSessions(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	return s.sessionRepo.GetByClientID(ctx, clientID)
}

// validTransitions maps each status to the statuses it may move to.
// Cancelled and completed are terminal.
var validTransitions = map[domain.SessionStatus][]domain.SessionStatus{
	domain.SessionScheduled: {domain.SessionCompleted, domain.SessionCancelled, domain.SessionNoShow},
	domain.SessionNoShow:    {domain.SessionCompleted, domain.SessionCancelled},
}

// UpdateSessionStatus moves a session through its lifecycle. Only the
// booking trainer may change status; cancelling frees the slot for rebooking.
func (s *bookingService) UpdateSessionStatus(ctx context.Context, requesterID, sessionID primitive.ObjectID, status domain.SessionStatus) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.TrainerID != requesterID {
		return nil, ErrSessionAccessDenied
	}

	allowed := false
	for _, next := range validTransitions[session.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, status)
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	session.Status = status
	return session, nil
}
