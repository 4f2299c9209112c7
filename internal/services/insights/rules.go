package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/services/goals"
)

const (
	// compulsiveOpenThreshold is the daily open count that triggers an alert.
	compulsiveOpenThreshold = 10
	// limitWarningRatio is how close to a stay-under limit counts as at risk.
	limitWarningRatio = 0.9
)

// RuleProvider derives recommendations from fixed heuristics over the user's
// goals, usage and privacy data. It is the default provider and the fallback
// when no model-backed provider is configured.
type RuleProvider struct {
	logger *zap.Logger
}

// NewRuleProvider creates the heuristic provider.
func NewRuleProvider(logger *zap.Logger) *RuleProvider {
	return &RuleProvider{logger: logger}
}

// Generate applies each rule in order and collects the hits.
func (p *RuleProvider) Generate(_ context.Context, snapshot Snapshot) ([]*models.Recommendation, error) {
	var recs []*models.Recommendation

	if rec := compulsiveOpensRule(snapshot); rec != nil {
		recs = append(recs, rec)
	}
	if rec := highRiskAppRule(snapshot); rec != nil {
		recs = append(recs, rec)
	}
	if rec := limitAtRiskRule(snapshot); rec != nil {
		recs = append(recs, rec)
	}
	if rec := usageDropRule(snapshot); rec != nil {
		recs = append(recs, rec)
	}

	for _, rec := range recs {
		rec.UserID = snapshot.User.ID
		rec.Status = models.RecommendationStatusNew
	}

	p.logger.Debug("rule provider generated recommendations",
		zap.Int64("user_id", snapshot.User.ID),
		zap.Int("count", len(recs)))

	return recs, nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// compulsiveOpensRule fires when an app was opened ten or more times today.
func compulsiveOpensRule(snapshot Snapshot) *models.Recommendation {
	opens := make(map[string]int)
	for _, u := range snapshot.Usage {
		if sameDay(u.Date, snapshot.Now) {
			opens[u.AppName] += u.OpenCount
		}
	}

	worst := ""
	maxOpens := 0
	for app, n := range opens {
		if n > maxOpens || (n == maxOpens && app < worst) {
			worst = app
			maxOpens = n
		}
	}
	if maxOpens < compulsiveOpenThreshold {
		return nil
	}

	return &models.Recommendation{
		Title:       fmt.Sprintf("You keep reaching for %s", worst),
		Description: fmt.Sprintf("%s was opened %d times today. Moving it off your home screen can break the reflex.", worst, maxOpens),
		Type:        models.RecommendationTypeAlert,
	}
}

// highRiskAppRule fires when any app holds a high-risk permission set.
func highRiskAppRule(snapshot Snapshot) *models.Recommendation {
	var risky []string
	for _, data := range snapshot.Privacy {
		if data.RiskLevel == models.RiskLevelHigh {
			risky = append(risky, data.AppName)
		}
	}
	if len(risky) == 0 {
		return nil
	}
	sort.Strings(risky)

	return &models.Recommendation{
		Title:       fmt.Sprintf("%s has broad access to your data", risky[0]),
		Description: fmt.Sprintf("%d of your apps carry high-risk permissions. Review what %s can reach and revoke what it does not need.", len(risky), risky[0]),
		Type:        models.RecommendationTypePrivacy,
	}
}

// limitAtRiskRule fires when a stay-under goal has reached 90% of its limit.
func limitAtRiskRule(snapshot Snapshot) *models.Recommendation {
	for _, goal := range snapshot.Goals {
		if !goal.Category.IsLimit() || goal.CurrentValue == nil {
			continue
		}
		ratio := float64(*goal.CurrentValue) / float64(goal.TargetValue)
		if ratio < limitWarningRatio {
			continue
		}
		return &models.Recommendation{
			Title:       fmt.Sprintf("%s is close to its limit", goal.Title),
			Description: fmt.Sprintf("You are at %d of %d %s. Tightening app timers for the rest of the day keeps this goal on track.", *goal.CurrentValue, goal.TargetValue, goal.Unit),
			Type:        models.RecommendationTypeGoal,
		}
	}
	return nil
}

// usageDropRule fires when this week's screen time dropped below last week's.
func usageDropRule(snapshot Snapshot) *models.Recommendation {
	weekAgo := snapshot.Now.AddDate(0, 0, -7)
	twoWeeksAgo := snapshot.Now.AddDate(0, 0, -14)

	thisWeek, lastWeek := 0, 0
	for _, u := range snapshot.Usage {
		switch {
		case u.Date.After(weekAgo):
			thisWeek += u.TimeSpent
		case u.Date.After(twoWeeksAgo):
			lastWeek += u.TimeSpent
		}
	}
	if lastWeek == 0 || thisWeek >= lastWeek {
		return nil
	}

	saved := int64(lastWeek - thisWeek)
	return &models.Recommendation{
		Title:       "Screen time is trending down",
		Description: fmt.Sprintf("You spent %s less on your screen than last week. Keep it going.", goals.FormatMinutes(saved)),
		Type:        models.RecommendationTypeProductivity,
	}
}
