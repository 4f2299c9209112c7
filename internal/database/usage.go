package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// UsageRepository handles app usage database operations
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Insert stores one usage snapshot.
func (r *UsageRepository) Insert(ctx context.Context, usage *models.AppUsage) error {
	query := `
		INSERT INTO app_usage (user_id, date, app_name, category, time_spent, open_count, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var metadata []byte
	if usage.Metadata != nil {
		var err error
		metadata, err = json.Marshal(usage.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal usage metadata: %w", err)
		}
	}

	err := r.db.QueryRowContext(ctx, query,
		usage.UserID,
		usage.Date,
		usage.AppName,
		usage.Category,
		usage.TimeSpent,
		usage.OpenCount,
		metadata,
	).Scan(&usage.ID)

	if err != nil {
		return fmt.Errorf("failed to insert usage: %w", err)
	}

	return nil
}

// SelectByUserSince returns usage rows for the user on or after the cutoff,
// newest first.
func (r *UsageRepository) SelectByUserSince(ctx context.Context, userID int64, since time.Time) ([]*models.AppUsage, error) {
	query := `
		SELECT id, user_id, date, app_name, category, time_spent, open_count, metadata
		FROM app_usage
		WHERE user_id = $1 AND date >= $2
		ORDER BY date DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var entries []*models.AppUsage
	for rows.Next() {
		usage := &models.AppUsage{}
		var metadata []byte
		if err := rows.Scan(
			&usage.ID,
			&usage.UserID,
			&usage.Date,
			&usage.AppName,
			&usage.Category,
			&usage.TimeSpent,
			&usage.OpenCount,
			&metadata,
		); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &usage.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal usage metadata: %w", err)
			}
		}
		entries = append(entries, usage)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage: %w", err)
	}

	return entries, nil
}

// TotalMinutesOn sums screen time for one calendar day.
func (r *UsageRepository) TotalMinutesOn(ctx context.Context, userID int64, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	query := `
		SELECT COALESCE(SUM(time_spent), 0)
		FROM app_usage
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	var total int
	if err := r.db.QueryRowContext(ctx, query, userID, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum usage: %w", err)
	}
	return total, nil
}

// TotalOpensOn sums app open counts for one calendar day.
func (r *UsageRepository) TotalOpensOn(ctx context.Context, userID int64, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	query := `
		SELECT COALESCE(SUM(open_count), 0)
		FROM app_usage
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	var total int
	if err := r.db.QueryRowContext(ctx, query, userID, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum opens: %w", err)
	}
	return total, nil
}

// DeleteOlderThan prunes usage rows past the retention window and returns how
// many were removed.
func (r *UsageRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM app_usage WHERE date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune usage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}
