package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/awarehq/aware-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is the shared validator instance. The HTTP layer and the
	// services validate against the same registered rules, so the constraint
	// set exists exactly once.
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("goal_category", validateGoalCategory); err != nil {
		panic(fmt.Sprintf("failed to register goal_category validator: %v", err))
	}
	if err := Validate.RegisterValidation("goal_status", validateGoalStatus); err != nil {
		panic(fmt.Sprintf("failed to register goal_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("recommendation_status", validateRecommendationStatus); err != nil {
		panic(fmt.Sprintf("failed to register recommendation_status validator: %v", err))
	}
}

// validateGoalCategory validates that a string is a valid GoalCategory enum value
func validateGoalCategory(fl validator.FieldLevel) bool {
	return models.GoalCategory(fl.Field().String()).Valid()
}

// validateGoalStatus validates that a string is a valid GoalStatus enum value
func validateGoalStatus(fl validator.FieldLevel) bool {
	return models.GoalStatus(fl.Field().String()).Valid()
}

// validateRecommendationStatus validates that a string is a valid RecommendationStatus enum value
func validateRecommendationStatus(fl validator.FieldLevel) bool {
	return models.RecommendationStatus(fl.Field().String()).Valid()
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateGoalCategory validates a GoalCategory string value
func ValidateGoalCategory(value string) error {
	if !models.GoalCategory(value).Valid() {
		return fmt.Errorf("invalid category: %s (must be 'time', 'notifications', 'health', or 'privacy')", value)
	}
	return nil
}

// ValidateGoalStatus validates a GoalStatus string value
func ValidateGoalStatus(value string) error {
	if !models.GoalStatus(value).Valid() {
		return fmt.Errorf("invalid status: %s (must be 'on track', 'off track', 'due soon', or 'completed')", value)
	}
	return nil
}

// ValidateRecommendationStatus validates a RecommendationStatus string value
func ValidateRecommendationStatus(value string) error {
	if !models.RecommendationStatus(value).Valid() {
		return fmt.Errorf("invalid status: %s (must be 'new', 'read', 'dismissed', or 'acted_upon')", value)
	}
	return nil
}
