package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/request"
	"github.com/awarehq/aware-api/internal/services/goals"
)

// DashboardHandler assembles the headline stat cards
type DashboardHandler struct {
	usage   database.UsageStore
	privacy database.PrivacyStore
	goals   *goals.Service
	logger  *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(usage database.UsageStore, privacy database.PrivacyStore, goalService *goals.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{usage: usage, privacy: privacy, goals: goalService, logger: logger}
}

// RegisterRoutes registers dashboard routes on the given router.
// The router should already have the /dashboard prefix.
func (h *DashboardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
}

// GetStats computes the dashboard stat cards from usage, privacy and goal
// data. Nothing here is stored; every card is derived on read.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	minutesToday, err := h.usage.TotalMinutesOn(ctx, user.ID, now)
	if err != nil {
		h.respondStatsError(w, err, user.ID)
		return
	}
	minutesYesterday, err := h.usage.TotalMinutesOn(ctx, user.ID, yesterday)
	if err != nil {
		h.respondStatsError(w, err, user.ID)
		return
	}

	rows, err := h.usage.SelectByUserSince(ctx, user.ID, now.Add(-48*time.Hour))
	if err != nil {
		h.respondStatsError(w, err, user.ID)
		return
	}

	privacyData, err := h.privacy.SelectByUserID(ctx, user.ID)
	if err != nil {
		h.respondStatsError(w, err, user.ID)
		return
	}

	views, err := h.goals.ClassifiedViews(ctx, user.ID, now)
	if err != nil {
		h.respondStatsError(w, err, user.ID)
		return
	}

	appsToday, appsYesterday := countDistinctApps(rows, now)
	score := computePrivacyScore(privacyData)

	completed := 0
	for _, view := range views {
		if view.DerivedStatus == models.GoalStatusCompleted {
			completed++
		}
	}

	stats := models.DashboardStats{
		ScreenTime: models.ScreenTimeStat{
			Value:  goals.FormatMinutes(int64(minutesToday)),
			Change: percentChange(minutesToday, minutesYesterday),
		},
		AppsUsed: models.AppsUsedStat{
			Value:  appsToday,
			Change: appsToday - appsYesterday,
		},
		PrivacyRisk: models.PrivacyRiskStat{
			Value: fmt.Sprintf("%d/100", score.Score),
			Score: score.Score,
			Level: riskLabel(score.RiskLevel),
		},
		GoalsProgress: models.GoalsProgressStat{
			Completed: completed,
			Total:     len(views),
		},
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *DashboardHandler) respondStatsError(w http.ResponseWriter, err error, userID int64) {
	h.logger.Error("failed to assemble dashboard stats", zap.Error(err), zap.Int64("user_id", userID))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve dashboard stats")
}

// countDistinctApps splits the rows into today's and yesterday's calendar
// days and counts distinct app names in each.
func countDistinctApps(rows []*models.AppUsage, now time.Time) (today, yesterday int) {
	todayApps := map[string]struct{}{}
	yesterdayApps := map[string]struct{}{}

	ty, tm, td := now.Date()
	yy, ym, yd := now.AddDate(0, 0, -1).Date()

	for _, row := range rows {
		ry, rm, rd := row.Date.Date()
		switch {
		case ry == ty && rm == tm && rd == td:
			todayApps[row.AppName] = struct{}{}
		case ry == yy && rm == ym && rd == yd:
			yesterdayApps[row.AppName] = struct{}{}
		}
	}

	return len(todayApps), len(yesterdayApps)
}

// percentChange is the percent delta of current vs previous, 0 when there
// is no previous data to compare against.
func percentChange(current, previous int) int {
	if previous == 0 {
		return 0
	}
	return (current - previous) * 100 / previous
}

func riskLabel(level models.RiskLevel) string {
	switch level {
	case models.RiskLevelHigh:
		return "High Risk"
	case models.RiskLevelMedium:
		return "Medium Risk"
	default:
		return "Low Risk"
	}
}
