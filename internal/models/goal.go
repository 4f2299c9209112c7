package models

import "time"

// GoalCategory classifies a goal's domain. It drives the default unit and
// how progress is phrased.
type GoalCategory string

const (
	GoalCategoryTime          GoalCategory = "time"
	GoalCategoryNotifications GoalCategory = "notifications"
	GoalCategoryHealth        GoalCategory = "health"
	GoalCategoryPrivacy       GoalCategory = "privacy"
)

// CategoryUnits maps each category to its default display unit. Membership in
// this table also defines the closed category set.
var CategoryUnits = map[GoalCategory]string{
	GoalCategoryTime:          "minutes",
	GoalCategoryNotifications: "count",
	GoalCategoryHealth:        "breaks",
	GoalCategoryPrivacy:       "days",
}

// DefaultUnit returns the display unit for the category, or "" for an
// unknown category.
func (c GoalCategory) DefaultUnit() string {
	return CategoryUnits[c]
}

// Valid reports whether the category is a member of the closed set.
func (c GoalCategory) Valid() bool {
	_, ok := CategoryUnits[c]
	return ok
}

// IsLimit reports whether the category measures something the user tries to
// stay under (time, notifications) as opposed to something they try to reach.
func (c GoalCategory) IsLimit() bool {
	return c == GoalCategoryTime || c == GoalCategoryNotifications
}

// GoalStatus classifies a goal's current standing.
type GoalStatus string

const (
	GoalStatusOnTrack   GoalStatus = "on track"
	GoalStatusOffTrack  GoalStatus = "off track"
	GoalStatusDueSoon   GoalStatus = "due soon"
	GoalStatusCompleted GoalStatus = "completed"
)

// Valid reports whether the status is a member of the closed set.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalStatusOnTrack, GoalStatusOffTrack, GoalStatusDueSoon, GoalStatusCompleted:
		return true
	default:
		return false
	}
}

// Goal is a user-defined behavioral target with a measurable current/target
// value pair. CurrentValue is nil until progress has been recorded; it may
// exceed TargetValue for limit-style categories.
type Goal struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Category     GoalCategory `json:"category"`
	TargetValue  int64        `json:"target_value"`
	CurrentValue *int64       `json:"current_value,omitempty"`
	Unit         string       `json:"unit"`
	Status       GoalStatus   `json:"status"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
