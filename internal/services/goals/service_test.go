package goals

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
)

func newTestService() (*Service, database.GoalStore) {
	store := database.NewMemoryStore().Goals()
	return NewService(store, zap.NewNop()), store
}

func TestCreateDefaultsUnitAndStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{
		Title:       "Reduce screen time",
		Category:    "time",
		TargetValue: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if goal.Unit != "minutes" {
		t.Errorf("unit = %q, want minutes", goal.Unit)
	}
	if goal.Status != models.GoalStatusOnTrack {
		t.Errorf("status = %q, want on track", goal.Status)
	}
	if goal.ID == 0 {
		t.Error("expected store-assigned id")
	}
}

func TestCreateUnitOverride(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{
		Title:       "Reduce screen time",
		Category:    "time",
		TargetValue: 2,
		Unit:        "hours",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if goal.Unit != "hours" {
		t.Errorf("unit = %q, want hours", goal.Unit)
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name      string
		input     CreateInput
		wantField string
	}{
		{
			name:      "short title",
			input:     CreateInput{Title: "ab", Category: "time", TargetValue: 120},
			wantField: "title",
		},
		{
			name:      "whitespace-padded short title",
			input:     CreateInput{Title: "  ab  ", Category: "time", TargetValue: 120},
			wantField: "title",
		},
		{
			name:      "unknown category",
			input:     CreateInput{Title: "Read more", Category: "fitness", TargetValue: 5},
			wantField: "category",
		},
		{
			name:      "missing target",
			input:     CreateInput{Title: "Read more", Category: "time"},
			wantField: "target_value",
		},
		{
			name:      "invalid status",
			input:     CreateInput{Title: "Read more", Category: "time", TargetValue: 5, Status: "paused"},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, store := newTestService()
			_, err := svc.Create(ctx, 1, tt.input)

			ve, ok := IsValidationError(err)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, present := ve.Fields[tt.wantField]; !present {
				t.Errorf("expected field %q in %v", tt.wantField, ve.Fields)
			}

			goals, err := store.SelectByUserID(ctx, 1)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if len(goals) != 0 {
				t.Errorf("store should be unchanged after failed create, has %d goals", len(goals))
			}
		})
	}
}

func TestUpdateShallowMerge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{
		Title:       "Reduce screen time",
		Description: "Less doomscrolling",
		Category:    "time",
		TargetValue: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	current := int64(105)
	updated, err := svc.Update(ctx, 1, goal.ID, UpdateInput{CurrentValue: &current})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CurrentValue == nil || *updated.CurrentValue != 105 {
		t.Errorf("current value not merged: %v", updated.CurrentValue)
	}
	if updated.Title != "Reduce screen time" || updated.Description != "Less doomscrolling" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.TargetValue != 120 {
		t.Errorf("target changed: %d", updated.TargetValue)
	}
}

func TestUpdateEnumMembership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{Title: "Reduce screen time", Category: "time", TargetValue: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "done"
	if _, err := svc.Update(ctx, 1, goal.ID, UpdateInput{Status: &bad}); err == nil {
		t.Error("expected validation error for unknown status")
	}

	good := "completed"
	updated, err := svc.Update(ctx, 1, goal.ID, UpdateInput{Status: &good})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.GoalStatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
}

func TestUpdateSanitizesBeforeValidating(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{Title: "Reduce screen time", Category: "time", TargetValue: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	padded := "  a  "
	_, err = svc.Update(ctx, 1, goal.ID, UpdateInput{Title: &padded})
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError for padded short title, got %v", err)
	}
	if _, present := ve.Fields["title"]; !present {
		t.Errorf("expected field title in %v", ve.Fields)
	}

	unchanged, err := svc.Get(ctx, 1, goal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Title != "Reduce screen time" {
		t.Errorf("title changed by rejected update: %q", unchanged.Title)
	}

	trimmed := "  Read instead  "
	updated, err := svc.Update(ctx, 1, goal.ID, UpdateInput{Title: &trimmed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Read instead" {
		t.Errorf("title = %q, want trimmed %q", updated.Title, "Read instead")
	}
}

func TestUpdateNonexistentLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{Title: "Reduce screen time", Category: "time", TargetValue: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Hijacked"
	if _, err := svc.Update(ctx, 1, goal.ID+100, UpdateInput{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	goals, err := store.SelectByUserID(ctx, 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(goals) != 1 || goals[0].Title != "Reduce screen time" {
		t.Errorf("store changed by failed update: %+v", goals)
	}
}

func TestUpdateOtherUsersGoalIsNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	goal, err := svc.Create(ctx, 1, CreateInput{Title: "Reduce screen time", Category: "time", TargetValue: 120})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Hijacked"
	if _, err := svc.Update(ctx, 2, goal.ID, UpdateInput{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user's goal, got %v", err)
	}
	if err := svc.Delete(ctx, 2, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting other user's goal, got %v", err)
	}
}

func TestListNeverReturnsOtherUsersGoals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Create(ctx, 1, CreateInput{Title: "Mine first", Category: "time", TargetValue: 60}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 2, CreateInput{Title: "Theirs", Category: "health", TargetValue: 9}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 1, CreateInput{Title: "Mine second", Category: "privacy", TargetValue: 7}); err != nil {
		t.Fatalf("create: %v", err)
	}

	goals, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(goals))
	}
	if goals[0].Title != "Mine first" || goals[1].Title != "Mine second" {
		t.Errorf("creation order not preserved: %q, %q", goals[0].Title, goals[1].Title)
	}
	for _, g := range goals {
		if g.UserID != 1 {
			t.Errorf("leaked goal for user %d", g.UserID)
		}
	}
}

func TestClassifiedViews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService()
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	seed := []struct {
		input   CreateInput
		current int64
	}{
		{CreateInput{Title: "Reduce social media", Category: "time", TargetValue: 120}, 105},
		{CreateInput{Title: "Fewer notifications", Category: "notifications", TargetValue: 50}, 68},
		{CreateInput{Title: "Take regular breaks", Category: "health", TargetValue: 9}, 9},
		{CreateInput{Title: "Weekly privacy check", Category: "privacy", TargetValue: 7}, 6},
	}
	for _, s := range seed {
		goal, err := svc.Create(ctx, 1, s.input)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		current := s.current
		if _, err := svc.Update(ctx, 1, goal.ID, UpdateInput{CurrentValue: &current}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	views, err := svc.ClassifiedViews(ctx, 1, now)
	if err != nil {
		t.Fatalf("classified views: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 views, got %d", len(views))
	}

	wantStatus := []models.GoalStatus{
		models.GoalStatusOnTrack,
		models.GoalStatusOffTrack,
		models.GoalStatusOnTrack,
		models.GoalStatusDueSoon,
	}
	for i, v := range views {
		if v.DerivedStatus != wantStatus[i] {
			t.Errorf("view %d (%s): status = %q, want %q", i, v.Title, v.DerivedStatus, wantStatus[i])
		}
		if v.Display != DisplayFor(wantStatus[i]) {
			t.Errorf("view %d: display mismatch", i)
		}
	}

	if views[0].Progress.Percent != 87.5 {
		t.Errorf("time goal percent = %v, want 87.5", views[0].Progress.Percent)
	}
	if views[1].Progress.Percent != 100 {
		t.Errorf("notifications goal percent = %v, want clamped 100", views[1].Progress.Percent)
	}
}
