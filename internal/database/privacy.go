package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/awarehq/aware-api/internal/models"
)

// PrivacyRepository handles privacy data database operations
type PrivacyRepository struct {
	db *DB
}

// NewPrivacyRepository creates a new privacy repository
func NewPrivacyRepository(db *DB) *PrivacyRepository {
	return &PrivacyRepository{db: db}
}

// Upsert stores or refreshes the privacy record for one app. App name is the
// natural key within a user's data.
func (r *PrivacyRepository) Upsert(ctx context.Context, data *models.PrivacyData) error {
	permissions, err := json.Marshal(data.Permissions)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}

	query := `
		INSERT INTO privacy_data (user_id, app_name, risk_level, permissions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, app_name)
		DO UPDATE SET risk_level = EXCLUDED.risk_level, permissions = EXCLUDED.permissions
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query,
		data.UserID,
		data.AppName,
		data.RiskLevel,
		permissions,
	).Scan(&data.ID); err != nil {
		return fmt.Errorf("failed to upsert privacy data: %w", err)
	}

	return nil
}

// SelectByUserID returns all privacy records for the user.
func (r *PrivacyRepository) SelectByUserID(ctx context.Context, userID int64) ([]*models.PrivacyData, error) {
	query := `
		SELECT id, user_id, app_name, risk_level, permissions
		FROM privacy_data
		WHERE user_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query privacy data: %w", err)
	}
	defer rows.Close()

	var records []*models.PrivacyData
	for rows.Next() {
		data := &models.PrivacyData{}
		var permissions []byte
		if err := rows.Scan(
			&data.ID,
			&data.UserID,
			&data.AppName,
			&data.RiskLevel,
			&permissions,
		); err != nil {
			return nil, fmt.Errorf("failed to scan privacy data: %w", err)
		}
		if err := json.Unmarshal(permissions, &data.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
		}
		records = append(records, data)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating privacy data: %w", err)
	}

	return records, nil
}
