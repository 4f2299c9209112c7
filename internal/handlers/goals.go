package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/request"
	"github.com/awarehq/aware-api/internal/services/goals"
)

// GoalHandler handles goal-related requests
type GoalHandler struct {
	service *goals.Service
	logger  *zap.Logger
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(service *goals.Service, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{service: service, logger: logger}
}

// RegisterRoutes registers goal routes on the given router.
// The router should already have the /goals prefix.
func (h *GoalHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListGoals).Methods("GET")
	r.HandleFunc("", h.CreateGoal).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateGoal).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteGoal).Methods("DELETE")
}

// ListGoals lists the authenticated user's goals with derived progress and
// status fields, in creation order.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	views, err := h.service.ClassifiedViews(r.Context(), user.ID, time.Now())
	if err != nil {
		h.logger.Error("failed to list goals", zap.Error(err), zap.Int64("user_id", user.ID))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve goals")
		return
	}

	respondJSON(w, http.StatusOK, views)
}

// CreateGoal creates a new goal
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var input goals.CreateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	goal, err := h.service.Create(r.Context(), user.ID, input)
	if err != nil {
		h.respondGoalError(w, err, user.ID)
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

// UpdateGoal applies a partial update to one of the user's goals
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := goalID(w, r)
	if !ok {
		return
	}

	var input goals.UpdateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	goal, err := h.service.Update(r.Context(), user.ID, id, input)
	if err != nil {
		h.respondGoalError(w, err, user.ID)
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// DeleteGoal deletes one of the user's goals
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	id, ok := goalID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, id); err != nil {
		h.respondGoalError(w, err, user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func goalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid goal ID")
		return 0, false
	}
	return id, true
}

func (h *GoalHandler) respondGoalError(w http.ResponseWriter, err error, userID int64) {
	if verr, ok := goals.IsValidationError(err); ok {
		respondValidationError(w, verr.Fields)
		return
	}
	if errors.Is(err, goals.ErrNotFound) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Goal not found")
		return
	}
	h.logger.Error("goal operation failed", zap.Error(err), zap.Int64("user_id", userID))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process goal")
}
