package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// RecommendationRepository handles recommendation database operations
type RecommendationRepository struct {
	db *DB
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Insert stores a new recommendation.
func (r *RecommendationRepository) Insert(ctx context.Context, rec *models.Recommendation) error {
	query := `
		INSERT INTO recommendations (user_id, title, description, type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID,
		rec.Title,
		rec.Description,
		rec.Type,
		rec.Status,
		time.Now(),
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// SelectByUserID returns the user's recommendations, newest first.
func (r *RecommendationRepository) SelectByUserID(ctx context.Context, userID int64) ([]*models.Recommendation, error) {
	query := `
		SELECT id, user_id, title, description, type, status, created_at
		FROM recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec := &models.Recommendation{}
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Title,
			&rec.Description,
			&rec.Type,
			&rec.Status,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}

// UpdateStatus moves a recommendation to a new status, scoped to its owner.
func (r *RecommendationRepository) UpdateStatus(ctx context.Context, userID, id int64, status models.RecommendationStatus) (*models.Recommendation, error) {
	query := `
		UPDATE recommendations
		SET status = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, type, status, created_at
	`

	rec := &models.Recommendation{}
	err := r.db.QueryRowContext(ctx, query, id, userID, status).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.Description,
		&rec.Type,
		&rec.Status,
		&rec.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recommendation: %w", err)
	}

	return rec, nil
}

// AdPredictionRepository handles ad prediction database operations
type AdPredictionRepository struct {
	db *DB
}

// NewAdPredictionRepository creates a new ad prediction repository
func NewAdPredictionRepository(db *DB) *AdPredictionRepository {
	return &AdPredictionRepository{db: db}
}

// Insert stores an ad prediction.
func (r *AdPredictionRepository) Insert(ctx context.Context, pred *models.AdPrediction) error {
	query := `
		INSERT INTO ad_predictions (user_id, category, title, description, likelihood, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		pred.UserID,
		pred.Category,
		pred.Title,
		pred.Description,
		pred.Likelihood,
		pred.ImageURL,
	).Scan(&pred.ID)

	if err != nil {
		return fmt.Errorf("failed to insert ad prediction: %w", err)
	}

	return nil
}

// SelectByUserID returns the user's ad predictions in insertion order.
func (r *AdPredictionRepository) SelectByUserID(ctx context.Context, userID int64) ([]*models.AdPrediction, error) {
	query := `
		SELECT id, user_id, category, title, description, likelihood, image_url
		FROM ad_predictions
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ad predictions: %w", err)
	}
	defer rows.Close()

	var preds []*models.AdPrediction
	for rows.Next() {
		pred := &models.AdPrediction{}
		if err := rows.Scan(
			&pred.ID,
			&pred.UserID,
			&pred.Category,
			&pred.Title,
			&pred.Description,
			&pred.Likelihood,
			&pred.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ad prediction: %w", err)
		}
		preds = append(preds, pred)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ad predictions: %w", err)
	}

	return preds, nil
}
