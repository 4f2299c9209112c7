package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// GoalRepository handles goal database operations
type GoalRepository struct {
	db *DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, title, description, category, target_value, current_value, unit, status, due_date, created_at, updated_at`

// Insert stores a new goal. The store assigns a monotonically increasing id;
// ids are never reused, even after deletion.
func (r *GoalRepository) Insert(ctx context.Context, goal *models.Goal) error {
	query := `
		INSERT INTO goals (user_id, title, description, category, target_value, current_value, unit, status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.Status,
		goal.DueDate,
		now,
		now,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	return nil
}

// SelectByID retrieves a single goal scoped to its owner.
func (r *GoalRepository) SelectByID(ctx context.Context, userID, id int64) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	goal, err := scanGoal(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return goal, nil
}

// SelectByUserID returns all of a user's goals in creation order.
func (r *GoalRepository) SelectByUserID(ctx context.Context, userID int64) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// Update replaces the mutable fields of an existing goal.
func (r *GoalRepository) Update(ctx context.Context, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET title = $3, description = $4, category = $5, target_value = $6,
		    current_value = $7, unit = $8, status = $9, due_date = $10, updated_at = $11
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.Status,
		goal.DueDate,
		time.Now(),
	).Scan(&goal.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("goal %d: %w", goal.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	return nil
}

// Delete removes a goal scoped to its owner.
func (r *GoalRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}

	return nil
}

// CountByStatus returns how many of the user's stored goals carry the given
// status. Derived statuses are the service's concern; this counts what is
// persisted.
func (r *GoalRepository) CountByStatus(ctx context.Context, userID int64, status models.GoalStatus) (int, error) {
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND status = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count goals: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	goal := &models.Goal{}
	var current sql.NullInt64
	var due sql.NullTime

	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.Description,
		&goal.Category,
		&goal.TargetValue,
		&current,
		&goal.Unit,
		&goal.Status,
		&due,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if current.Valid {
		goal.CurrentValue = &current.Int64
	}
	if due.Valid {
		goal.DueDate = &due.Time
	}

	return goal, nil
}
