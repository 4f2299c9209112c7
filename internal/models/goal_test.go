package models

import "testing"

func TestGoalCategoryDefaultUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category GoalCategory
		want     string
	}{
		{GoalCategoryTime, "minutes"},
		{GoalCategoryNotifications, "count"},
		{GoalCategoryHealth, "breaks"},
		{GoalCategoryPrivacy, "days"},
		{GoalCategory("exercise"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			t.Parallel()

			if got := tt.category.DefaultUnit(); got != tt.want {
				t.Errorf("DefaultUnit(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestGoalCategoryValid(t *testing.T) {
	t.Parallel()

	for _, c := range []GoalCategory{GoalCategoryTime, GoalCategoryNotifications, GoalCategoryHealth, GoalCategoryPrivacy} {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	for _, c := range []GoalCategory{"", "Time", "screen", "TIME "} {
		if c.Valid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestGoalCategoryIsLimit(t *testing.T) {
	t.Parallel()

	limits := map[GoalCategory]bool{
		GoalCategoryTime:          true,
		GoalCategoryNotifications: true,
		GoalCategoryHealth:        false,
		GoalCategoryPrivacy:       false,
	}
	for c, want := range limits {
		if got := c.IsLimit(); got != want {
			t.Errorf("IsLimit(%q) = %v, want %v", c, got, want)
		}
	}
}

func TestGoalStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []GoalStatus{GoalStatusOnTrack, GoalStatusOffTrack, GoalStatusDueSoon, GoalStatusCompleted} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if GoalStatus("paused").Valid() {
		t.Error("expected 'paused' to be invalid")
	}
}
