package service

import (
	"context"
	"errors"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/progression"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to this program")
	ErrNoPerformanceData   = errors.New("no performance history for this exercise")
)

// historyFetchLimit bounds how much history the progression report pulls.
// The calculator only inspects a short recent window anyway.
const historyFetchLimit = 20

// ProgressionReport bundles everything the trainer sees for one exercise:
// the next-session recommendation, the phase guidelines, and the four-week
// look-ahead plan.
type ProgressionReport struct {
	Exercise       string                     `json:"exercise"`
	Phase          domain.Phase               `json:"phase"`
	Current        progression.Performance    `json:"current"`
	Recommendation progression.Recommendation `json:"recommendation"`
	Guidelines     progression.Guidelines     `json:"guidelines"`
	Plan           []progression.PlannedWeek  `json:"plan"`
	History        []progression.Performance  `json:"history"`
}

// ProgramService manages training programs and derives progression advice
// from recorded performance history.
type ProgramService interface {
	CreateProgram(ctx context.Context, trainerID primitive.ObjectID, program *domain.Program) (*domain.Program, error)
	GetProgram(ctx context.Context, requesterID, programID primitive.ObjectID) (*domain.Program, error)
	GetClientPrograms(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, trainerID primitive.ObjectID, program *domain.Program) (*domain.Program, error)

	// GetProgressionReport computes the overload recommendation and plan for
	// one exercise of a program, from the client's recorded history.
	GetProgressionReport(ctx context.Context, trainerID, programID primitive.ObjectID, exercise string) (*ProgressionReport, error)
}

// programService implements the ProgramService interface.
type programService struct {
	programRepo repository.ProgramRepository
	perfRepo    repository.PerformanceRepository
	userRepo    repository.UserRepository
	trainerSvc  TrainerService
}

// NewProgramService creates a new instance of programService.
func NewProgramService(
	programRepo repository.ProgramRepository,
	perfRepo repository.PerformanceRepository,
	userRepo repository.UserRepository,
	trainerSvc TrainerService,
) ProgramService {
	return &programService{
		programRepo: programRepo,
		perfRepo:    perfRepo,
		userRepo:    userRepo,
		trainerSvc:  trainerSvc,
	}
}

// CreateProgram builds a new program for a managed client.
func (s *programService) CreateProgram(ctx context.Context, trainerID primitive.ObjectID, program *domain.Program) (*domain.Program, error) {
	if program.Name == "" {
		return nil, errors.New("program name is required")
	}
	if _, ok := progression.AllGuidelines()[program.Phase]; !ok {
		return nil, errors.New("unknown training phase")
	}
	if _, err := s.trainerSvc.VerifyClientManaged(ctx, trainerID, program.ClientID); err != nil {
		return nil, err
	}

	program.TrainerID = trainerID
	if program.StartDate == nil {
		now := time.Now()
		program.StartDate = &now
	}
	program.IsActive = true

	programID, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = programID
	return program, nil
}

// GetProgram fetches one program; only its trainer or its client may see it.
func (s *programService) GetProgram(ctx context.Context, requesterID, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.TrainerID != requesterID && program.ClientID != requesterID {
		return nil, ErrProgramAccessDenied
	}
	return program, nil
}

// GetClientPrograms lists the programs the trainer built for one client.
func (s *programService) GetClientPrograms(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.Program, error) {
	if _, err := s.trainerSvc.VerifyClientManaged(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.programRepo.GetByClientAndTrainerID(ctx, clientID, trainerID)
}

// UpdateProgram saves changes to an existing program the trainer owns.
func (s *programService) UpdateProgram(ctx context.Context, trainerID primitive.ObjectID, program *domain.Program) (*domain.Program, error) {
	existing, err := s.programRepo.GetByID(ctx, program.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if existing.TrainerID != trainerID {
		return nil, ErrProgramAccessDenied
	}
	if program.Phase != "" {
		if _, ok := progression.AllGuidelines()[program.Phase]; !ok {
			return nil, errors.New("unknown training phase")
		}
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return s.programRepo.GetByID(ctx, program.ID)
}

// GetProgressionReport pulls the client's recent history for one exercise and
// runs the overload calculator and the bulk planner against it.
func (s *programService) GetProgressionReport(ctx context.Context, trainerID, programID primitive.ObjectID, exercise string) (*ProgressionReport, error) {
	if exercise == "" {
		return nil, errors.New("exercise name is required")
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if program.TrainerID != trainerID {
		return nil, ErrProgramAccessDenied
	}

	client, err := s.userRepo.GetByID(ctx, program.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	entries, err := s.perfRepo.GetHistory(ctx, program.ClientID, exercise, historyFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoPerformanceData
	}

	// Repository order is newest first; the calculator expects the same.
	history := make([]progression.Performance, len(entries))
	for i, e := range entries {
		history[i] = progression.Performance{
			Date:   e.Date,
			Weight: e.Weight,
			Reps:   e.Reps,
			Sets:   e.Sets,
			RPE:    e.RPE,
		}
	}
	current := history[0]

	now := time.Now()
	weeksTrained := weeksSince(program.StartDate, entries[len(entries)-1].Date, now)

	return &ProgressionReport{
		Exercise:       exercise,
		Phase:          program.Phase,
		Current:        current,
		Recommendation: progression.Recommend(current, program.Phase, history, now),
		Guidelines:     progression.GuidelinesFor(program.Phase),
		Plan:           progression.BuildPlan(current, program.Phase, client.Experience, weeksTrained, now),
		History:        history,
	}, nil
}

// weeksSince counts completed training weeks from the program start, falling
// back to the oldest history sample when the program has no start date.
func weeksSince(start *time.Time, oldestSample, now time.Time) int {
	anchor := oldestSample
	if start != nil && !start.IsZero() {
		anchor = *start
	}
	if anchor.After(now) {
		return 0
	}
	return int(now.Sub(anchor) / (7 * 24 * time.Hour))
}
