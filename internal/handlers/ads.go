package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/request"
)

// AdsHandler handles ad prediction requests
type AdsHandler struct {
	predictions database.AdPredictionStore
	logger      *zap.Logger
}

// NewAdsHandler creates a new ads handler
func NewAdsHandler(predictions database.AdPredictionStore, logger *zap.Logger) *AdsHandler {
	return &AdsHandler{predictions: predictions, logger: logger}
}

// RegisterRoutes registers ad routes on the given router.
// The router should already have the /ads prefix.
func (h *AdsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/predictions", h.GetPredictions).Methods("GET")
}

// GetPredictions returns what advertisers are likely targeting the user
// with. Read-only; predictions are seeded out of band.
func (h *AdsHandler) GetPredictions(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	predictions, err := h.predictions.SelectByUserID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load ad predictions", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve ad predictions")
		return
	}

	respondJSON(w, http.StatusOK, predictions)
}
