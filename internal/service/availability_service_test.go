package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func newAvailabilityFixture() (AvailabilityService, *fakeSessionRepo, primitive.ObjectID) {
	sessions := newFakeSessionRepo()
	svc := NewAvailabilityService(newFakeAvailabilityRepo(), sessions)
	return svc, sessions, primitive.NewObjectID()
}

func TestSetWeeklyTemplate(t *testing.T) {
	ctx := context.Background()

	valid := domain.WeeklyAvailability{
		DayOfWeek:   1,
		StartTime:   "09:00",
		EndTime:     "17:00",
		IsAvailable: true,
	}

	tests := []struct {
		name    string
		rules   []domain.WeeklyAvailability
		wantErr bool
	}{
		{"valid single rule", []domain.WeeklyAvailability{valid}, false},
		{"empty template clears availability", nil, false},
		{"day out of range", []domain.WeeklyAvailability{{DayOfWeek: 7, StartTime: "09:00", EndTime: "17:00"}}, true},
		{"malformed start time", []domain.WeeklyAvailability{{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"}}, true},
		{"end not after start", []domain.WeeklyAvailability{{DayOfWeek: 1, StartTime: "17:00", EndTime: "09:00"}}, true},
		{"duplicate weekday", []domain.WeeklyAvailability{valid, valid}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, trainerID := newAvailabilityFixture()
			_, err := svc.SetWeeklyTemplate(ctx, trainerID, tt.rules)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetWeeklyTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidAvailability) {
				t.Errorf("error = %v, want ErrInvalidAvailability", err)
			}
		})
	}

	t.Run("replaces the previous template", func(t *testing.T) {
		svc, _, trainerID := newAvailabilityFixture()

		if _, err := svc.SetWeeklyTemplate(ctx, trainerID, []domain.WeeklyAvailability{valid}); err != nil {
			t.Fatalf("first save error = %v", err)
		}
		saved, err := svc.SetWeeklyTemplate(ctx, trainerID, []domain.WeeklyAvailability{
			{DayOfWeek: 3, StartTime: "08:00", EndTime: "12:00", IsAvailable: true},
		})
		if err != nil {
			t.Fatalf("second save error = %v", err)
		}
		if len(saved) != 1 || saved[0].DayOfWeek != 3 {
			t.Errorf("template after replace = %+v, want single Wednesday rule", saved)
		}
	})
}

func TestGetAvailableSlots(t *testing.T) {
	ctx := context.Background()
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	setup := func(t *testing.T) (AvailabilityService, *fakeSessionRepo, primitive.ObjectID) {
		t.Helper()
		svc, sessions, trainerID := newAvailabilityFixture()
		_, err := svc.SetWeeklyTemplate(ctx, trainerID, []domain.WeeklyAvailability{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true},
		})
		if err != nil {
			t.Fatalf("SetWeeklyTemplate() error = %v", err)
		}
		return svc, sessions, trainerID
	}

	t.Run("no rule means no slots", func(t *testing.T) {
		svc, _, trainerID := newAvailabilityFixture()
		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, 0)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("slots = %v, want empty", slots)
		}
	})

	t.Run("booked session removes overlapping slots", func(t *testing.T) {
		svc, sessions, trainerID := setup(t)

		// Session 10:00-11:00 splits the 09:00-12:00 window.
		if _, err := sessions.Create(ctx, &domain.Session{
			TrainerID: trainerID,
			ClientID:  primitive.NewObjectID(),
			StartTime: monday.Add(10 * time.Hour),
			EndTime:   monday.Add(11 * time.Hour),
			Status:    domain.SessionScheduled,
		}); err != nil {
			t.Fatalf("seed session error = %v", err)
		}

		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, time.Hour)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		want := []time.Time{monday.Add(9 * time.Hour), monday.Add(11 * time.Hour)}
		if len(slots) != len(want) {
			t.Fatalf("got %d slots, want %d: %+v", len(slots), len(want), slots)
		}
		for i, w := range want {
			if !slots[i].StartTime.Equal(w) {
				t.Errorf("slot[%d].StartTime = %v, want %v", i, slots[i].StartTime, w)
			}
		}
	})

	t.Run("unavailable exception clears the day", func(t *testing.T) {
		svc, _, trainerID := setup(t)

		if _, err := svc.SetException(ctx, &domain.AvailabilityException{
			TrainerID:   trainerID,
			Date:        monday,
			IsAvailable: false,
			Reason:      "holiday",
		}); err != nil {
			t.Fatalf("SetException() error = %v", err)
		}

		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, time.Hour)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(slots) != 0 {
			t.Errorf("slots = %v, want empty on holiday", slots)
		}
	})

	t.Run("available exception overrides the window", func(t *testing.T) {
		svc, _, trainerID := setup(t)

		// Shift the start later, keep the weekly end.
		if _, err := svc.SetException(ctx, &domain.AvailabilityException{
			TrainerID:   trainerID,
			Date:        monday,
			IsAvailable: true,
			StartTime:   strPtr("11:00"),
		}); err != nil {
			t.Fatalf("SetException() error = %v", err)
		}

		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, time.Hour)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		if len(slots) != 1 || !slots[0].StartTime.Equal(monday.Add(11*time.Hour)) {
			t.Errorf("slots = %+v, want single 11:00 slot", slots)
		}
	})

	t.Run("deleting the exception restores the weekly rule", func(t *testing.T) {
		svc, _, trainerID := setup(t)

		if _, err := svc.SetException(ctx, &domain.AvailabilityException{
			TrainerID: trainerID, Date: monday, IsAvailable: false,
		}); err != nil {
			t.Fatalf("SetException() error = %v", err)
		}
		if err := svc.DeleteException(ctx, trainerID, monday); err != nil {
			t.Fatalf("DeleteException() error = %v", err)
		}

		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, time.Hour)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		// 09:00 through 11:00 on the half-hour grid.
		if len(slots) != 5 {
			t.Errorf("got %d slots, want 5", len(slots))
		}
	})

	t.Run("deleting a missing exception", func(t *testing.T) {
		svc, _, trainerID := newAvailabilityFixture()
		if err := svc.DeleteException(ctx, trainerID, monday); !errors.Is(err, ErrExceptionNotFound) {
			t.Errorf("error = %v, want ErrExceptionNotFound", err)
		}
	})

	t.Run("zero duration defaults to an hour", func(t *testing.T) {
		svc, _, trainerID := setup(t)
		slots, err := svc.GetAvailableSlots(ctx, trainerID, monday, 0)
		if err != nil {
			t.Fatalf("GetAvailableSlots() error = %v", err)
		}
		for _, s := range slots {
			if s.Duration != int(domain.DefaultSessionLength.Minutes()) {
				t.Fatalf("slot duration = %d, want %d", s.Duration, int(domain.DefaultSessionLength.Minutes()))
			}
		}
	})
}
