package insights

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

var testNow = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func snapshotWith(goals []*models.Goal, usage []*models.AppUsage, privacy []*models.PrivacyData) Snapshot {
	return Snapshot{
		User:    &models.User{ID: 1, Username: "alexjohnson"},
		Goals:   goals,
		Usage:   usage,
		Privacy: privacy,
		Now:     testNow,
	}
}

func generate(t *testing.T, s Snapshot) []*models.Recommendation {
	t.Helper()
	recs, err := NewRuleProvider(zap.NewNop()).Generate(context.Background(), s)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return recs
}

func TestRuleProviderQuietDataProducesNothing(t *testing.T) {
	t.Parallel()

	if recs := generate(t, snapshotWith(nil, nil, nil)); len(recs) != 0 {
		t.Errorf("expected no recommendations for empty data, got %d", len(recs))
	}
}

func TestCompulsiveOpensRule(t *testing.T) {
	t.Parallel()

	usage := []*models.AppUsage{
		{AppName: "Instagram", Date: testNow.Add(-2 * time.Hour), OpenCount: 7},
		{AppName: "Instagram", Date: testNow.Add(-5 * time.Hour), OpenCount: 5},
		{AppName: "Slack", Date: testNow.Add(-1 * time.Hour), OpenCount: 3},
	}

	recs := generate(t, snapshotWith(nil, usage, nil))
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Type != models.RecommendationTypeAlert {
		t.Errorf("type = %q, want alert", rec.Type)
	}
	if rec.Status != models.RecommendationStatusNew || rec.UserID != 1 {
		t.Errorf("defaults not applied: %+v", rec)
	}

	// Opens from a previous day do not count toward today.
	yesterday := []*models.AppUsage{
		{AppName: "Instagram", Date: testNow.AddDate(0, 0, -1), OpenCount: 50},
	}
	if recs := generate(t, snapshotWith(nil, yesterday, nil)); len(recs) != 0 {
		t.Errorf("expected no alert for yesterday's opens, got %d recs", len(recs))
	}
}

func TestHighRiskAppRule(t *testing.T) {
	t.Parallel()

	privacy := []*models.PrivacyData{
		{AppName: "TikTok", RiskLevel: models.RiskLevelHigh},
		{AppName: "Facebook", RiskLevel: models.RiskLevelHigh},
		{AppName: "Slack", RiskLevel: models.RiskLevelLow},
	}

	recs := generate(t, snapshotWith(nil, nil, privacy))
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Type != models.RecommendationTypePrivacy {
		t.Errorf("type = %q, want privacy", recs[0].Type)
	}

	lowOnly := []*models.PrivacyData{{AppName: "Slack", RiskLevel: models.RiskLevelLow}}
	if recs := generate(t, snapshotWith(nil, nil, lowOnly)); len(recs) != 0 {
		t.Errorf("expected no recommendations for low-risk apps, got %d", len(recs))
	}
}

func TestLimitAtRiskRule(t *testing.T) {
	t.Parallel()

	atRisk := []*models.Goal{
		{Title: "Fewer notifications", Category: models.GoalCategoryNotifications, TargetValue: 50, CurrentValue: int64Ptr(45), Unit: "count"},
	}
	recs := generate(t, snapshotWith(atRisk, nil, nil))
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Type != models.RecommendationTypeGoal {
		t.Errorf("type = %q, want goal", recs[0].Type)
	}

	comfortable := []*models.Goal{
		{Title: "Fewer notifications", Category: models.GoalCategoryNotifications, TargetValue: 50, CurrentValue: int64Ptr(30), Unit: "count"},
	}
	if recs := generate(t, snapshotWith(comfortable, nil, nil)); len(recs) != 0 {
		t.Errorf("expected no recommendations under 90%%, got %d", len(recs))
	}

	// Reach-style categories are not limits.
	reach := []*models.Goal{
		{Title: "Weekly privacy check", Category: models.GoalCategoryPrivacy, TargetValue: 7, CurrentValue: int64Ptr(7), Unit: "days"},
	}
	if recs := generate(t, snapshotWith(reach, nil, nil)); len(recs) != 0 {
		t.Errorf("expected no limit warnings for privacy goals, got %d", len(recs))
	}
}

func TestUsageDropRule(t *testing.T) {
	t.Parallel()

	usage := []*models.AppUsage{
		{AppName: "Instagram", Date: testNow.AddDate(0, 0, -2), TimeSpent: 100},
		{AppName: "Instagram", Date: testNow.AddDate(0, 0, -9), TimeSpent: 250},
	}

	recs := generate(t, snapshotWith(nil, usage, nil))
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].Type != models.RecommendationTypeProductivity {
		t.Errorf("type = %q, want productivity", recs[0].Type)
	}

	// Rising usage produces nothing.
	rising := []*models.AppUsage{
		{AppName: "Instagram", Date: testNow.AddDate(0, 0, -2), TimeSpent: 300},
		{AppName: "Instagram", Date: testNow.AddDate(0, 0, -9), TimeSpent: 250},
	}
	if recs := generate(t, snapshotWith(nil, rising, nil)); len(recs) != 0 {
		t.Errorf("expected no recommendations for rising usage, got %d", len(recs))
	}
}

func TestParseRecommendations(t *testing.T) {
	t.Parallel()

	content := `Here you go: {"recommendations": [
		{"title": "Cut evening scrolling", "description": "Most usage lands after 9pm.", "type": "productivity"},
		{"title": "Check app permissions", "description": "Two apps read your location.", "type": "privacy"},
		{"title": "", "description": "no title, dropped", "type": "alert"},
		{"title": "Odd type falls back", "description": "x", "type": "mystery"}
	]}`

	recs, err := parseRecommendations(content, 7)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].UserID != 7 || recs[0].Status != models.RecommendationStatusNew {
		t.Errorf("defaults not applied: %+v", recs[0])
	}
	if recs[2].Type != models.RecommendationTypeProductivity {
		t.Errorf("unknown type should fall back to productivity, got %q", recs[2].Type)
	}

	if _, err := parseRecommendations("not json at all", 7); err == nil {
		t.Error("expected parse error for garbage content")
	}
}
