package insights

import (
	"context"
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

// Snapshot is the slice of a user's data an insight provider reasons over.
// Now anchors "today" and "this week" so generation is deterministic.
type Snapshot struct {
	User    *models.User
	Goals   []*models.Goal
	Usage   []*models.AppUsage
	Privacy []*models.PrivacyData
	Now     time.Time
}

// Provider generates recommendations from a user's data snapshot. The
// returned recommendations are unsaved; the caller persists them.
type Provider interface {
	Generate(ctx context.Context, snapshot Snapshot) ([]*models.Recommendation, error)
}
