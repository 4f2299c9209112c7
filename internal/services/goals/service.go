package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/validation"
)

// Service is the sole write authority over goals. Handlers and workers go
// through it; nothing else mutates the goal store.
type Service struct {
	store  database.GoalStore
	logger *zap.Logger
}

// NewService creates a goal service backed by the given store.
func NewService(store database.GoalStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateInput is the payload for creating a goal. Unit and Status are
// optional; they default from the category table and to "on track".
type CreateInput struct {
	Title        string     `json:"title" validate:"required,min=3"`
	Description  string     `json:"description"`
	Category     string     `json:"category" validate:"required,goal_category"`
	TargetValue  int64      `json:"target_value" validate:"required,min=1"`
	CurrentValue *int64     `json:"current_value" validate:"omitempty,min=0"`
	Unit         string     `json:"unit"`
	Status       string     `json:"status" validate:"omitempty,goal_status"`
	DueDate      *time.Time `json:"due_date"`
}

// UpdateInput is a partial goal update. Nil fields are left untouched;
// supplied enum fields must be members of their closed sets.
type UpdateInput struct {
	Title        *string    `json:"title" validate:"omitempty,min=3"`
	Description  *string    `json:"description"`
	Category     *string    `json:"category" validate:"omitempty,goal_category"`
	TargetValue  *int64     `json:"target_value" validate:"omitempty,min=1"`
	CurrentValue *int64     `json:"current_value" validate:"omitempty,min=0"`
	Unit         *string    `json:"unit"`
	Status       *string    `json:"status" validate:"omitempty,goal_status"`
	DueDate      *time.Time `json:"due_date"`
}

// GoalView pairs a goal with its derived progress, status and display
// attributes for read endpoints.
type GoalView struct {
	models.Goal
	Progress      Progress          `json:"progress"`
	DerivedStatus models.GoalStatus `json:"derived_status"`
	Display       StatusDisplay     `json:"display"`
}

// Create validates the input, applies category defaults and persists the
// goal. The store assigns the id.
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (*models.Goal, error) {
	input.Title = validation.SanitizeText(input.Title)
	input.Description = validation.SanitizeText(input.Description)

	if err := validateInput(input); err != nil {
		return nil, err
	}

	category := models.GoalCategory(input.Category)

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = category.DefaultUnit()
	}

	status := models.GoalStatusOnTrack
	if input.Status != "" {
		status = models.GoalStatus(input.Status)
	}

	goal := &models.Goal{
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		Category:     category,
		TargetValue:  input.TargetValue,
		CurrentValue: input.CurrentValue,
		Unit:         unit,
		Status:       status,
		DueDate:      input.DueDate,
	}

	if err := s.store.Insert(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	s.logger.Info("goal created",
		zap.Int64("goal_id", goal.ID),
		zap.Int64("user_id", userID),
		zap.String("category", string(goal.Category)))

	return goal, nil
}

// Update merges the supplied fields into an existing goal. Returns
// ErrNotFound when the goal is absent or owned by another user; the store is
// left unchanged in that case. Supplied enum values are checked for
// membership but no cross-field re-validation happens.
func (s *Service) Update(ctx context.Context, userID, id int64, input UpdateInput) (*models.Goal, error) {
	// Sanitize before validating so the length check sees the stored value.
	if input.Title != nil {
		clean := validation.SanitizeText(*input.Title)
		input.Title = &clean
	}
	if input.Description != nil {
		clean := validation.SanitizeText(*input.Description)
		input.Description = &clean
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	goal, err := s.store.SelectByID(ctx, userID, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if input.Title != nil {
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.Category != nil {
		goal.Category = models.GoalCategory(*input.Category)
	}
	if input.TargetValue != nil {
		goal.TargetValue = *input.TargetValue
	}
	if input.CurrentValue != nil {
		goal.CurrentValue = input.CurrentValue
	}
	if input.Unit != nil {
		goal.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Status != nil {
		goal.Status = models.GoalStatus(*input.Status)
	}
	if input.DueDate != nil {
		goal.DueDate = input.DueDate
	}

	if err := s.store.Update(ctx, goal); err != nil {
		return nil, mapStoreErr(err)
	}

	s.logger.Info("goal updated",
		zap.Int64("goal_id", goal.ID),
		zap.Int64("user_id", userID))

	return goal, nil
}

// Delete removes a goal. Same NotFound semantics as Update; no cascades.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return mapStoreErr(err)
	}

	s.logger.Info("goal deleted",
		zap.Int64("goal_id", id),
		zap.Int64("user_id", userID))

	return nil
}

// Get returns one goal scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, id int64) (*models.Goal, error) {
	goal, err := s.store.SelectByID(ctx, userID, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return goal, nil
}

// List returns the user's goals in creation order.
func (s *Service) List(ctx context.Context, userID int64) ([]*models.Goal, error) {
	goals, err := s.store.SelectByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// ClassifiedViews returns the user's goals with derived progress, status and
// display attributes, in creation order.
func (s *Service) ClassifiedViews(ctx context.Context, userID int64, now time.Time) ([]GoalView, error) {
	stored, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]GoalView, 0, len(stored))
	for _, goal := range stored {
		status := ClassifyStatus(goal, now)
		views = append(views, GoalView{
			Goal:          *goal,
			Progress:      ComputeProgress(goal),
			DerivedStatus: status,
			Display:       DisplayFor(status),
		})
	}
	return views, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// validateInput runs the shared validator and flattens tag failures into a
// per-field ValidationError.
func validateInput(input any) error {
	err := validation.Validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe.Field())] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldName(structField string) string {
	switch structField {
	case "Title":
		return "title"
	case "Description":
		return "description"
	case "Category":
		return "category"
	case "TargetValue":
		return "target_value"
	case "CurrentValue":
		return "current_value"
	case "Unit":
		return "unit"
	case "Status":
		return "status"
	case "DueDate":
		return "due_date"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Field() == "Title" {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "goal_category":
		return "must be one of 'time', 'notifications', 'health', 'privacy'"
	case "goal_status":
		return "must be one of 'on track', 'off track', 'due soon', 'completed'"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
