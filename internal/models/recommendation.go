package models

import "time"

// RecommendationType classifies what prompted a recommendation.
type RecommendationType string

const (
	RecommendationTypeAlert        RecommendationType = "alert"
	RecommendationTypePrivacy      RecommendationType = "privacy"
	RecommendationTypeGoal         RecommendationType = "goal"
	RecommendationTypeProductivity RecommendationType = "productivity"
)

// RecommendationStatus tracks how the user has responded to a recommendation.
type RecommendationStatus string

const (
	RecommendationStatusNew       RecommendationStatus = "new"
	RecommendationStatusRead      RecommendationStatus = "read"
	RecommendationStatusDismissed RecommendationStatus = "dismissed"
	RecommendationStatusActedUpon RecommendationStatus = "acted_upon"
)

// Valid reports whether the status is a member of the closed set.
func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationStatusNew, RecommendationStatusRead, RecommendationStatusDismissed, RecommendationStatusActedUpon:
		return true
	default:
		return false
	}
}

// Recommendation is a behavioral nudge surfaced on the dashboard.
type Recommendation struct {
	ID          int64                `json:"id"`
	UserID      int64                `json:"user_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        RecommendationType   `json:"type"`
	Status      RecommendationStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

// AdPrediction is a read-only guess at what advertisers are likely to target
// the user with, based on their profile.
type AdPrediction struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Likelihood  string `json:"likelihood"`
	ImageURL    string `json:"image_url"`
}
