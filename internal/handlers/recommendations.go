package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/request"
)

// RecommendationHandler handles recommendation requests
type RecommendationHandler struct {
	recommendations database.RecommendationStore
	logger          *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendations database.RecommendationStore, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations, logger: logger}
}

// RegisterRoutes registers recommendation routes on the given router.
// The router should already have the /recommendations prefix.
func (h *RecommendationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListRecommendations).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateRecommendation).Methods("PATCH")
}

// UpdateRecommendationRequest carries the user's response to a
// recommendation (read, dismissed, acted upon).
type UpdateRecommendationRequest struct {
	Status models.RecommendationStatus `json:"status"`
}

// ListRecommendations lists the user's recommendations, newest first
func (h *RecommendationHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	recs, err := h.recommendations.SelectByUserID(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to load recommendations", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve recommendations")
		return
	}

	respondJSON(w, http.StatusOK, recs)
}

// UpdateRecommendation updates the status of one recommendation
func (h *RecommendationHandler) UpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid recommendation ID")
		return
	}

	var req UpdateRecommendationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid recommendation status")
		return
	}

	rec, err := h.recommendations.UpdateStatus(r.Context(), user.ID, id, req.Status)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Recommendation not found")
			return
		}
		h.logger.Error("failed to update recommendation", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update recommendation")
		return
	}

	respondJSON(w, http.StatusOK, rec)
}
