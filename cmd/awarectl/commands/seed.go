package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
)

// seedFile is the YAML fixture layout. Dates default to today when omitted.
type seedFile struct {
	Usage []struct {
		Date      string         `yaml:"date"`
		AppName   string         `yaml:"app_name"`
		Category  string         `yaml:"category"`
		TimeSpent int            `yaml:"time_spent"`
		OpenCount int            `yaml:"open_count"`
		Metadata  map[string]any `yaml:"metadata"`
	} `yaml:"usage"`
	Privacy []struct {
		AppName     string   `yaml:"app_name"`
		RiskLevel   string   `yaml:"risk_level"`
		Permissions []string `yaml:"permissions"`
	} `yaml:"privacy"`
	Goals []struct {
		Title        string `yaml:"title"`
		Description  string `yaml:"description"`
		Category     string `yaml:"category"`
		TargetValue  int64  `yaml:"target_value"`
		CurrentValue *int64 `yaml:"current_value"`
		Unit         string `yaml:"unit"`
		Status       string `yaml:"status"`
	} `yaml:"goals"`
	Recommendations []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Type        string `yaml:"type"`
		Status      string `yaml:"status"`
	} `yaml:"recommendations"`
	AdPredictions []struct {
		Category    string `yaml:"category"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Likelihood  string `yaml:"likelihood"`
		ImageURL    string `yaml:"image_url"`
	} `yaml:"ad_predictions"`
}

// NewSeedCmd creates the seed command
func NewSeedCmd() *cobra.Command {
	var file string
	var userID int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML fixture for demoing",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read fixture: %w", err)
			}

			var fixture seedFile
			if err := yaml.Unmarshal(raw, &fixture); err != nil {
				return fmt.Errorf("failed to parse fixture: %w", err)
			}

			db, err := openDatabase()
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeDatabase(db)

			repos := database.NewRepositories(db)
			ctx := context.Background()

			if _, err := repos.Users.GetByID(ctx, userID); err != nil {
				return fmt.Errorf("user %d: %w", userID, err)
			}

			if err := seed(ctx, repos, userID, &fixture); err != nil {
				return err
			}

			fmt.Printf("Seeded user %d: %d usage, %d privacy, %d goals, %d recommendations, %d predictions\n",
				userID, len(fixture.Usage), len(fixture.Privacy), len(fixture.Goals),
				len(fixture.Recommendations), len(fixture.AdPredictions))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "seed.yaml", "Path to the YAML fixture")
	cmd.Flags().Int64Var(&userID, "user-id", 1, "Account to attach the fixture to")

	return cmd
}

func seed(ctx context.Context, repos *database.Repositories, userID int64, fixture *seedFile) error {
	for _, entry := range fixture.Usage {
		date := time.Now()
		if entry.Date != "" {
			parsed, err := time.Parse("2006-01-02", entry.Date)
			if err != nil {
				return fmt.Errorf("bad usage date %q: %w", entry.Date, err)
			}
			date = parsed
		}
		row := &models.AppUsage{
			UserID:    userID,
			Date:      date,
			AppName:   entry.AppName,
			Category:  entry.Category,
			TimeSpent: entry.TimeSpent,
			OpenCount: entry.OpenCount,
			Metadata:  entry.Metadata,
		}
		if err := repos.Usage.Insert(ctx, row); err != nil {
			return fmt.Errorf("failed to seed usage: %w", err)
		}
	}

	for _, entry := range fixture.Privacy {
		row := &models.PrivacyData{
			UserID:      userID,
			AppName:     entry.AppName,
			RiskLevel:   models.RiskLevel(entry.RiskLevel),
			Permissions: entry.Permissions,
		}
		if !row.RiskLevel.Valid() {
			return fmt.Errorf("bad risk level %q for %s", entry.RiskLevel, entry.AppName)
		}
		if err := repos.Privacy.Upsert(ctx, row); err != nil {
			return fmt.Errorf("failed to seed privacy data: %w", err)
		}
	}

	for _, entry := range fixture.Goals {
		status := models.GoalStatus(entry.Status)
		if entry.Status == "" {
			status = models.GoalStatusOnTrack
		}
		category := models.GoalCategory(entry.Category)
		unit := entry.Unit
		if unit == "" {
			unit = category.DefaultUnit()
		}
		row := &models.Goal{
			UserID:       userID,
			Title:        entry.Title,
			Description:  entry.Description,
			Category:     category,
			TargetValue:  entry.TargetValue,
			CurrentValue: entry.CurrentValue,
			Unit:         unit,
			Status:       status,
		}
		if err := repos.Goals.Insert(ctx, row); err != nil {
			return fmt.Errorf("failed to seed goal: %w", err)
		}
	}

	for _, entry := range fixture.Recommendations {
		status := models.RecommendationStatus(entry.Status)
		if entry.Status == "" {
			status = models.RecommendationStatusNew
		}
		row := &models.Recommendation{
			UserID:      userID,
			Title:       entry.Title,
			Description: entry.Description,
			Type:        models.RecommendationType(entry.Type),
			Status:      status,
		}
		if err := repos.Recommendations.Insert(ctx, row); err != nil {
			return fmt.Errorf("failed to seed recommendation: %w", err)
		}
	}

	for _, entry := range fixture.AdPredictions {
		row := &models.AdPrediction{
			UserID:      userID,
			Category:    entry.Category,
			Title:       entry.Title,
			Description: entry.Description,
			Likelihood:  entry.Likelihood,
			ImageURL:    entry.ImageURL,
		}
		if err := repos.AdPredictions.Insert(ctx, row); err != nil {
			return fmt.Errorf("failed to seed ad prediction: %w", err)
		}
	}

	return nil
}
