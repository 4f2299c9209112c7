package database

import (
	"context"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// UserStore is the persistence surface for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateLastSyncDate(ctx context.Context, userID int64, syncedAt time.Time) error
}

// GoalStore is the persistence surface for goals. Implementations assign
// monotonically increasing ids on Insert and never reuse an id after Delete.
type GoalStore interface {
	Insert(ctx context.Context, goal *models.Goal) error
	SelectByID(ctx context.Context, userID, id int64) (*models.Goal, error)
	SelectByUserID(ctx context.Context, userID int64) ([]*models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, userID, id int64) error
	CountByStatus(ctx context.Context, userID int64, status models.GoalStatus) (int, error)
}

// UsageStore is the persistence surface for app usage snapshots.
type UsageStore interface {
	Insert(ctx context.Context, usage *models.AppUsage) error
	SelectByUserSince(ctx context.Context, userID int64, since time.Time) ([]*models.AppUsage, error)
	TotalMinutesOn(ctx context.Context, userID int64, day time.Time) (int, error)
	TotalOpensOn(ctx context.Context, userID int64, day time.Time) (int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PrivacyStore is the persistence surface for per-app privacy records.
type PrivacyStore interface {
	Upsert(ctx context.Context, data *models.PrivacyData) error
	SelectByUserID(ctx context.Context, userID int64) ([]*models.PrivacyData, error)
}

// RecommendationStore is the persistence surface for recommendations.
type RecommendationStore interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	SelectByUserID(ctx context.Context, userID int64) ([]*models.Recommendation, error)
	UpdateStatus(ctx context.Context, userID, id int64, status models.RecommendationStatus) (*models.Recommendation, error)
}

// AdPredictionStore is the persistence surface for ad predictions.
type AdPredictionStore interface {
	Insert(ctx context.Context, pred *models.AdPrediction) error
	SelectByUserID(ctx context.Context, userID int64) ([]*models.AdPrediction, error)
}

var (
	_ UserStore           = (*UserRepository)(nil)
	_ GoalStore           = (*GoalRepository)(nil)
	_ UsageStore          = (*UsageRepository)(nil)
	_ PrivacyStore        = (*PrivacyRepository)(nil)
	_ RecommendationStore = (*RecommendationRepository)(nil)
	_ AdPredictionStore   = (*AdPredictionRepository)(nil)
)

// Repositories bundles every store backed by one connection pool.
type Repositories struct {
	Users           UserStore
	Goals           GoalStore
	Usage           UsageStore
	Privacy         PrivacyStore
	Recommendations RecommendationStore
	AdPredictions   AdPredictionStore
}

// NewRepositories wires the Postgres-backed stores.
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Users:           NewUserRepository(db),
		Goals:           NewGoalRepository(db),
		Usage:           NewUsageRepository(db),
		Privacy:         NewPrivacyRepository(db),
		Recommendations: NewRecommendationRepository(db),
		AdPredictions:   NewAdPredictionRepository(db),
	}
}
