package goals

import (
	"fmt"
	"math"

	"github.com/awarehq/aware-api/internal/models"
)

// Progress is the display-ready completion state of one goal. Percent is
// clamped to [0, 100] even when the underlying ratio exceeds 1; the texts
// phrase the raw values per category.
type Progress struct {
	Percent     float64 `json:"percent"`
	PercentText string  `json:"percent_text"`
	DetailText  string  `json:"detail_text"`
}

// ComputeProgress derives progress from a goal's current and target values.
// It never fails: a goal with no recorded progress yields zero percent and
// empty texts, and an unknown category falls through to generic formatting.
func ComputeProgress(goal *models.Goal) Progress {
	if goal.CurrentValue == nil {
		return Progress{}
	}

	current := *goal.CurrentValue
	rawRatio := float64(current) / float64(goal.TargetValue) * 100

	return Progress{
		Percent:     math.Min(rawRatio, 100),
		PercentText: percentText(goal.Category, current, goal.TargetValue, rawRatio),
		DetailText:  detailText(goal, current),
	}
}

func percentText(category models.GoalCategory, current, target int64, rawRatio float64) string {
	switch category {
	case models.GoalCategoryTime, models.GoalCategoryNotifications:
		return fmt.Sprintf("%d%% of limit", int64(math.Round(rawRatio)))
	case models.GoalCategoryHealth:
		return "100% success this week"
	case models.GoalCategoryPrivacy:
		remaining := target - current
		if remaining == 1 {
			return "Due in 1 day"
		}
		return fmt.Sprintf("Due in %d days", remaining)
	default:
		return fmt.Sprintf("%d%%", int64(math.Round(rawRatio)))
	}
}

func detailText(goal *models.Goal, current int64) string {
	switch goal.Category {
	case models.GoalCategoryTime:
		return fmt.Sprintf("Today's usage: %s", FormatMinutes(current))
	case models.GoalCategoryNotifications:
		return fmt.Sprintf("Today: %d notifications", current)
	case models.GoalCategoryHealth:
		return "Last violation: 3 days ago"
	case models.GoalCategoryPrivacy:
		return fmt.Sprintf("Last check: %d days ago", current)
	default:
		return fmt.Sprintf("Current: %d %s", current, goal.Unit)
	}
}

// FormatMinutes renders a minute count as "Xh Ym" using integer division.
func FormatMinutes(minutes int64) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
