package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/queue"
	"github.com/awarehq/aware-api/internal/request"
)

// usageWindow is how far back the read endpoints look.
const usageWindow = 7 * 24 * time.Hour

// MaxSyncEntries caps how many usage rows one sync request may carry.
const MaxSyncEntries = 500

// UsageHandler handles app usage requests
type UsageHandler struct {
	usage  database.UsageStore
	jobs   queue.JobQueue
	logger *zap.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage database.UsageStore, jobs queue.JobQueue, logger *zap.Logger) *UsageHandler {
	return &UsageHandler{usage: usage, jobs: jobs, logger: logger}
}

// RegisterRoutes registers usage routes on the given router.
// The router should already have the /usage prefix.
func (h *UsageHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/apps", h.GetAppUsage).Methods("GET")
	r.HandleFunc("/time-distribution", h.GetTimeDistribution).Methods("GET")
	r.HandleFunc("/sync", h.SyncUsage).Methods("POST")
}

// GetAppUsage returns the user's usage snapshots from the last week,
// newest first.
func (h *UsageHandler) GetAppUsage(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	rows, err := h.usage.SelectByUserSince(r.Context(), user.ID, time.Now().Add(-usageWindow))
	if err != nil {
		h.logger.Error("failed to load usage", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve app usage")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// GetTimeDistribution aggregates the last week of usage into per-weekday
// category buckets, Monday first.
func (h *UsageHandler) GetTimeDistribution(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	rows, err := h.usage.SelectByUserSince(r.Context(), user.ID, time.Now().Add(-usageWindow))
	if err != nil {
		h.logger.Error("failed to load usage", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve time distribution")
		return
	}

	respondJSON(w, http.StatusOK, distributeByWeekday(rows))
}

// SyncRequest carries a batch of usage snapshots from a device
type SyncRequest struct {
	Usage []*models.AppUsage `json:"usage"`
}

// SyncResponse acknowledges an accepted sync job
type SyncResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// SyncUsage accepts a usage batch and enqueues it for async ingestion.
// Responds 202; the worker records the rows and refreshes recommendations.
func (h *UsageHandler) SyncUsage(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SyncRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Usage) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Usage batch is empty")
		return
	}
	if len(req.Usage) > MaxSyncEntries {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Usage batch exceeds the maximum entry count")
		return
	}

	for _, entry := range req.Usage {
		if entry.AppName == "" || entry.TimeSpent < 0 || entry.OpenCount < 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Usage entries need an app name and non-negative counters")
			return
		}
		entry.UserID = user.ID
		if entry.Date.IsZero() {
			entry.Date = time.Now()
		}
	}

	job := queue.NewUsageSyncJob(user.ID, req.Usage)
	if err := h.jobs.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("failed to enqueue sync job", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "Sync is temporarily unavailable")
		return
	}

	respondJSON(w, http.StatusAccepted, SyncResponse{
		JobID:   job.ID.String(),
		Message: "Sync accepted",
	})
}

// distributeByWeekday buckets usage minutes into the dashboard's fixed
// weekday rows. Unknown categories land in "other".
func distributeByWeekday(rows []*models.AppUsage) []models.TimeDistribution {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	byDay := make(map[string]*models.TimeDistribution, len(days))

	dist := make([]models.TimeDistribution, len(days))
	for i, day := range days {
		dist[i] = models.TimeDistribution{Day: day}
		byDay[day] = &dist[i]
	}

	for _, row := range rows {
		bucket := byDay[row.Date.Weekday().String()[:3]]
		switch strings.ToLower(row.Category) {
		case "social":
			bucket.Social += row.TimeSpent
		case "productivity":
			bucket.Productivity += row.TimeSpent
		case "entertainment":
			bucket.Entertainment += row.TimeSpent
		default:
			bucket.Other += row.TimeSpent
		}
	}

	return dist
}
