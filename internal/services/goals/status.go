package goals

import (
	"time"

	"github.com/awarehq/aware-api/internal/models"
)

const dueSoonWindow = 24 * time.Hour

// ClassifyStatus derives a goal's standing from its values at read time. A
// stored "completed" is a manual override and always wins; otherwise the
// stored status is ignored and the values decide.
func ClassifyStatus(goal *models.Goal, now time.Time) models.GoalStatus {
	if goal.Status == models.GoalStatusCompleted {
		return models.GoalStatusCompleted
	}

	status := valueStatus(goal)

	// A due date inside the next day escalates on-track goals.
	if status == models.GoalStatusOnTrack && goal.DueDate != nil {
		until := goal.DueDate.Sub(now)
		if until <= dueSoonWindow {
			status = models.GoalStatusDueSoon
		}
	}

	return status
}

func valueStatus(goal *models.Goal) models.GoalStatus {
	if goal.CurrentValue == nil {
		return models.GoalStatusOnTrack
	}
	current := *goal.CurrentValue

	switch goal.Category {
	case models.GoalCategoryTime, models.GoalCategoryNotifications:
		ratio := float64(current) / float64(goal.TargetValue)
		switch {
		case ratio > 1:
			return models.GoalStatusOffTrack
		case ratio >= 0.9:
			return models.GoalStatusDueSoon
		default:
			return models.GoalStatusOnTrack
		}
	case models.GoalCategoryPrivacy:
		remaining := goal.TargetValue - current
		switch {
		case remaining <= 0:
			return models.GoalStatusOffTrack
		case remaining <= 1:
			return models.GoalStatusDueSoon
		default:
			return models.GoalStatusOnTrack
		}
	default:
		// health and anything unrecognized
		return models.GoalStatusOnTrack
	}
}

// StatusDisplay carries the presentation attributes for a status badge and
// its progress bar.
type StatusDisplay struct {
	Badge    string `json:"badge"`
	BarColor string `json:"bar_color"`
}

var statusDisplays = map[models.GoalStatus]StatusDisplay{
	models.GoalStatusOnTrack:   {Badge: "green", BarColor: "green"},
	models.GoalStatusOffTrack:  {Badge: "red", BarColor: "red"},
	models.GoalStatusDueSoon:   {Badge: "yellow", BarColor: "yellow"},
	models.GoalStatusCompleted: {Badge: "blue", BarColor: "blue"},
}

// DisplayFor maps a status to its fixed display attributes. Unrecognized
// statuses render gray rather than failing.
func DisplayFor(status models.GoalStatus) StatusDisplay {
	if d, ok := statusDisplays[status]; ok {
		return d
	}
	return StatusDisplay{Badge: "gray", BarColor: "gray"}
}
