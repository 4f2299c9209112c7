package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/request"
)

// Per-app exposure weights. The score saturates at 100.
const (
	highRiskWeight   = 20
	mediumRiskWeight = 10
	lowRiskWeight    = 3
)

// PrivacyHandler handles privacy data requests
type PrivacyHandler struct {
	privacy database.PrivacyStore
	logger  *zap.Logger
}

// NewPrivacyHandler creates a new privacy handler
func NewPrivacyHandler(privacy database.PrivacyStore, logger *zap.Logger) *PrivacyHandler {
	return &PrivacyHandler{privacy: privacy, logger: logger}
}

// RegisterRoutes registers privacy routes on the given router.
// The router should already have the /privacy prefix.
func (h *PrivacyHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/data", h.GetPrivacyData).Methods("GET")
	r.HandleFunc("/score", h.GetPrivacyScore).Methods("GET")
}

// GetPrivacyData returns the per-app permission records for the user
func (h *PrivacyHandler) GetPrivacyData(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	data, err := h.privacy.SelectByUserID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load privacy data", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve privacy data")
		return
	}

	respondJSON(w, http.StatusOK, data)
}

// GetPrivacyScore returns the aggregate exposure score derived from the
// user's privacy records.
func (h *PrivacyHandler) GetPrivacyScore(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	data, err := h.privacy.SelectByUserID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load privacy data", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to compute privacy score")
		return
	}

	respondJSON(w, http.StatusOK, computePrivacyScore(data))
}

// computePrivacyScore sums per-app risk weights into a 0-100 exposure score.
// Higher means more exposed.
func computePrivacyScore(data []*models.PrivacyData) models.PrivacyScore {
	score := 0
	highAccess := 0

	for _, app := range data {
		switch app.RiskLevel {
		case models.RiskLevelHigh:
			score += highRiskWeight
			highAccess++
		case models.RiskLevelMedium:
			score += mediumRiskWeight
		default:
			score += lowRiskWeight
		}
	}

	if score > 100 {
		score = 100
	}

	level := models.RiskLevelLow
	switch {
	case score >= 70:
		level = models.RiskLevelHigh
	case score >= 40:
		level = models.RiskLevelMedium
	}

	return models.PrivacyScore{
		Score:              score,
		RiskLevel:          level,
		AppsWithHighAccess: highAccess,
	}
}
