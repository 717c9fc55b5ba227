package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddClientByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns an unattached client", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer := users.add(&domain.User{Name: "Dana", Email: "dana@example.com", Role: domain.RoleTrainer})
		users.add(&domain.User{Name: "Sam", Email: "sam@example.com", Role: domain.RoleClient})
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		client, err := svc.AddClientByEmail(ctx, trainer.ID, "sam@example.com")
		if err != nil {
			t.Fatalf("AddClientByEmail() error = %v", err)
		}
		if client.TrainerID == nil || *client.TrainerID != trainer.ID {
			t.Errorf("client.TrainerID = %v, want %v", client.TrainerID, trainer.ID)
		}

		managed, err := svc.GetManagedClients(ctx, trainer.ID)
		if err != nil {
			t.Fatalf("GetManagedClients() error = %v", err)
		}
		if len(managed) != 1 || managed[0].Email != "sam@example.com" {
			t.Errorf("managed clients = %+v, want Sam", managed)
		}
	})

	t.Run("re-adding own client is a no-op", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, client := seedPair(users)
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		got, err := svc.AddClientByEmail(ctx, trainer.ID, client.Email)
		if err != nil {
			t.Fatalf("AddClientByEmail() error = %v", err)
		}
		if got.ID != client.ID {
			t.Errorf("returned client %v, want %v", got.ID, client.ID)
		}
	})

	t.Run("rejects a client of another trainer", func(t *testing.T) {
		users := newFakeUserRepo()
		_, client := seedPair(users)
		other := users.add(&domain.User{Name: "Riley", Email: "riley@example.com", Role: domain.RoleTrainer})
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		_, err := svc.AddClientByEmail(ctx, other.ID, client.Email)
		if !errors.Is(err, ErrClientAlreadyAssigned) {
			t.Errorf("error = %v, want ErrClientAlreadyAssigned", err)
		}
	})

	t.Run("rejects a trainer email", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, _ := seedPair(users)
		users.add(&domain.User{Name: "Riley", Email: "riley@example.com", Role: domain.RoleTrainer})
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		_, err := svc.AddClientByEmail(ctx, trainer.ID, "riley@example.com")
		if !errors.Is(err, ErrClientNotRole) {
			t.Errorf("error = %v, want ErrClientNotRole", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, _ := seedPair(users)
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		_, err := svc.AddClientByEmail(ctx, trainer.ID, "nobody@example.com")
		if !errors.Is(err, ErrClientNotFound) {
			t.Errorf("error = %v, want ErrClientNotFound", err)
		}
	})
}

func TestRecordPerformance(t *testing.T) {
	ctx := context.Background()

	t.Run("records for a managed client", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, client := seedPair(users)
		perf := &fakePerformanceRepo{}
		svc := NewTrainerService(users, perf)

		entry, err := svc.RecordPerformance(ctx, trainer.ID, client.ID,
			"deadlift", time.Time{}, 100, 5, 3, 8)
		if err != nil {
			t.Fatalf("RecordPerformance() error = %v", err)
		}
		if entry.Date.IsZero() {
			t.Error("zero date should default to now")
		}
		if entry.TrainerID != trainer.ID {
			t.Errorf("entry.TrainerID = %v, want %v", entry.TrainerID, trainer.ID)
		}

		history, err := svc.GetClientPerformance(ctx, trainer.ID, client.ID)
		if err != nil {
			t.Fatalf("GetClientPerformance() error = %v", err)
		}
		if len(history) != 1 {
			t.Errorf("history length = %d, want 1", len(history))
		}
	})

	t.Run("rejects an unmanaged client", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, _ := seedPair(users)
		stray := users.add(&domain.User{Name: "Lee", Email: "lee@example.com", Role: domain.RoleClient})
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		_, err := svc.RecordPerformance(ctx, trainer.ID, stray.ID, "deadlift", time.Now(), 100, 5, 3, 8)
		if !errors.Is(err, ErrClientNotManaged) {
			t.Errorf("error = %v, want ErrClientNotManaged", err)
		}
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, client := seedPair(users)
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		if _, err := svc.RecordPerformance(ctx, trainer.ID, client.ID, "deadlift", time.Now(), 100, 5, 3, 11); err == nil {
			t.Error("expected error for RPE above 10")
		}
		if _, err := svc.RecordPerformance(ctx, trainer.ID, client.ID, "", time.Now(), 100, 5, 3, 8); err == nil {
			t.Error("expected error for empty exercise name")
		}
	})

	t.Run("verify rejects unknown client id", func(t *testing.T) {
		users := newFakeUserRepo()
		trainer, _ := seedPair(users)
		svc := NewTrainerService(users, &fakePerformanceRepo{})

		_, err := svc.VerifyClientManaged(ctx, trainer.ID, primitive.NewObjectID())
		if !errors.Is(err, ErrClientNotFound) {
			t.Errorf("error = %v, want ErrClientNotFound", err)
		}
	})
}
