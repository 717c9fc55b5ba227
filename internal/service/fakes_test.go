package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. Single-goroutine use only.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	t, ok := r.users[trainerID]
	if !ok {
		return repository.ErrNotFound
	}
	t.ClientIDs = append(t.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	t, ok := r.users[trainerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var clients []domain.User
	for _, id := range t.ClientIDs {
		if c, ok := r.users[id]; ok {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

func (r *fakeUserRepo) SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error {
	c, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TrainerID = &trainerID
	return nil
}

type fakeAvailabilityRepo struct {
	weekly     []domain.WeeklyAvailability
	exceptions map[string]domain.AvailabilityException // keyed by trainer+date
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{exceptions: make(map[string]domain.AvailabilityException)}
}

func excKey(trainerID primitive.ObjectID, date time.Time) string {
	return fmt.Sprintf("%s/%s", trainerID.Hex(), date.Format("2006-01-02"))
}

func (r *fakeAvailabilityRepo) ReplaceWeekly(ctx context.Context, trainerID primitive.ObjectID, rules []domain.WeeklyAvailability) error {
	kept := r.weekly[:0]
	for _, w := range r.weekly {
		if w.TrainerID != trainerID {
			kept = append(kept, w)
		}
	}
	r.weekly = append(kept, rules...)
	return nil
}

func (r *fakeAvailabilityRepo) GetWeekly(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WeeklyAvailability, error) {
	var out []domain.WeeklyAvailability
	for _, w := range r.weekly {
		if w.TrainerID == trainerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) GetWeeklyByDay(ctx context.Context, trainerID primitive.ObjectID, dayOfWeek int) (*domain.WeeklyAvailability, error) {
	for _, w := range r.weekly {
		if w.TrainerID == trainerID && w.DayOfWeek == dayOfWeek {
			cp := w
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAvailabilityRepo) UpsertException(ctx context.Context, exc *domain.AvailabilityException) error {
	r.exceptions[excKey(exc.TrainerID, exc.Date)] = *exc
	return nil
}

func (r *fakeAvailabilityRepo) GetExceptionByDate(ctx context.Context, trainerID primitive.ObjectID, date time.Time) (*domain.AvailabilityException, error) {
	exc, ok := r.exceptions[excKey(trainerID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &exc, nil
}

func (r *fakeAvailabilityRepo) GetExceptionsInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.AvailabilityException, error) {
	var out []domain.AvailabilityException
	for _, exc := range r.exceptions {
		if exc.TrainerID == trainerID && !exc.Date.Before(from) && exc.Date.Before(to) {
			out = append(out, exc)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) DeleteException(ctx context.Context, trainerID primitive.ObjectID, date time.Time) error {
	key := excKey(trainerID, date)
	if _, ok := r.exceptions[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exceptions, key)
	return nil
}

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	cp := *session
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now()
	r.sessions[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range r.sessions {
		if s.TrainerID == trainerID && !s.StartTime.Before(from) && s.StartTime.Before(to) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeSessionRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range r.sessions {
		if s.TrainerID == trainerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	var out []domain.Session
	for _, s := range r.sessions {
		if s.ClientID == clientID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.SessionStatus) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	return nil
}

type fakePerformanceRepo struct {
	entries []domain.ExercisePerformance
}

func (r *fakePerformanceRepo) Create(ctx context.Context, entry *domain.ExercisePerformance) (primitive.ObjectID, error) {
	cp := *entry
	cp.ID = primitive.NewObjectID()
	r.entries = append(r.entries, cp)
	return cp.ID, nil
}

func (r *fakePerformanceRepo) GetHistory(ctx context.Context, clientID primitive.ObjectID, exercise string, limit int64) ([]domain.ExercisePerformance, error) {
	var out []domain.ExercisePerformance
	for _, e := range r.entries {
		if e.ClientID == clientID && e.Exercise == exercise {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePerformanceRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ExercisePerformance, error) {
	var out []domain.ExercisePerformance
	for _, e := range r.entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
}

func newFakeProgramRepo() *fakeProgramRepo {
	return &fakeProgramRepo{programs: make(map[primitive.ObjectID]*domain.Program)}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	cp := *program
	cp.ID = primitive.NewObjectID()
	r.programs[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgramRepo) GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if p.ClientID == clientID && p.TrainerID == trainerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProgramRepo) Update(ctx context.Context, program *domain.Program) error {
	existing, ok := r.programs[program.ID]
	if !ok {
		return repository.ErrNotFound
	}
	program.TrainerID = existing.TrainerID
	program.ClientID = existing.ClientID
	cp := *program
	r.programs[program.ID] = &cp
	return nil
}

type fakePhotoRepo struct {
	photos map[primitive.ObjectID]*domain.ProgressPhoto
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[primitive.ObjectID]*domain.ProgressPhoto)}
}

func (r *fakePhotoRepo) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	cp := *photo
	cp.ID = primitive.NewObjectID()
	cp.UploadedAt = time.Now()
	r.photos[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakePhotoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePhotoRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	var out []domain.ProgressPhoto
	for _, p := range r.photos {
		if p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// fakeFileStorage returns deterministic URLs instead of talking to S3.
type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://fake-s3.test/upload/" + objectKey, nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://fake-s3.test/download/" + objectKey, nil
}

func (fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

// seedPair creates a trainer with one managed client.
func seedPair(users *fakeUserRepo) (trainer, client *domain.User) {
	trainer = users.add(&domain.User{
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  domain.RoleTrainer,
	})
	client = users.add(&domain.User{
		Name:       "Sam",
		Email:      "sam@example.com",
		Role:       domain.RoleClient,
		TrainerID:  &trainer.ID,
		Experience: domain.ExperienceBeginner,
	})
	trainer.ClientIDs = []primitive.ObjectID{client.ID}
	return trainer, client
}
