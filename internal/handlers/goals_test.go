package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/services/goals"
)

func newGoalRig(t *testing.T) (*mux.Router, *database.Repositories, *models.User) {
	t.Helper()

	repos := database.NewMemoryRepositories()
	user := newTestUser(t, repos)

	service := goals.NewService(repos.Goals, zap.NewNop())
	handler := NewGoalHandler(service, zap.NewNop())

	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/goals").Subrouter())

	return router, repos, user
}

func TestCreateGoal(t *testing.T) {
	t.Parallel()

	router, _, user := newGoalRig(t)

	body := `{"title":"Limit Social Media Usage","category":"time","target_value":120,"current_value":105}`
	req := authedRequest("POST", "/goals", body, user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Goal `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Data.ID == 0 {
		t.Error("expected an assigned id")
	}
	if resp.Data.Unit != "minutes" {
		t.Errorf("Unit = %q, want minutes from the category default", resp.Data.Unit)
	}
	if resp.Data.Status != models.GoalStatusOnTrack {
		t.Errorf("Status = %q, want on track", resp.Data.Status)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	t.Parallel()

	router, repos, user := newGoalRig(t)

	body := `{"title":"ab","category":"time","target_value":120}`
	req := authedRequest("POST", "/goals", body, user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Fields["title"]; !ok {
		t.Errorf("expected a title field error, got %v", resp.Fields)
	}

	stored, err := repos.Goals.SelectByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("rejected create must not persist, found %d goals", len(stored))
	}
}

func TestListGoalsWithDerivedFields(t *testing.T) {
	t.Parallel()

	router, repos, user := newGoalRig(t)

	current := int64(105)
	goal := &models.Goal{
		UserID:       user.ID,
		Title:        "Limit Social Media Usage",
		Category:     models.GoalCategoryTime,
		TargetValue:  120,
		CurrentValue: &current,
		Unit:         "minutes",
		Status:       models.GoalStatusOnTrack,
	}
	if err := repos.Goals.Insert(context.Background(), goal); err != nil {
		t.Fatalf("insert goal: %v", err)
	}

	req := authedRequest("GET", "/goals", "", user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data []struct {
			ID       int64 `json:"id"`
			Progress struct {
				Percent     float64 `json:"percent"`
				PercentText string  `json:"percent_text"`
				DetailText  string  `json:"detail_text"`
			} `json:"progress"`
			DerivedStatus string `json:"derived_status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(resp.Data))
	}

	got := resp.Data[0]
	if got.Progress.Percent != 87.5 {
		t.Errorf("Percent = %v, want 87.5", got.Progress.Percent)
	}
	if got.Progress.PercentText != "88% of limit" {
		t.Errorf("PercentText = %q", got.Progress.PercentText)
	}
	if got.Progress.DetailText != "Today's usage: 1h 45m" {
		t.Errorf("DetailText = %q", got.Progress.DetailText)
	}
	if got.DerivedStatus != string(models.GoalStatusOnTrack) {
		t.Errorf("DerivedStatus = %q, want on track below the 90%% warning line", got.DerivedStatus)
	}
}

func TestUpdateGoalNotFound(t *testing.T) {
	t.Parallel()

	router, _, user := newGoalRig(t)

	req := authedRequest("PATCH", "/goals/42", `{"title":"New title"}`, user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
}

func TestUpdateGoalBadID(t *testing.T) {
	t.Parallel()

	router, _, user := newGoalRig(t)

	req := authedRequest("PATCH", "/goals/abc", `{"title":"New title"}`, user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
}

func TestDeleteGoal(t *testing.T) {
	t.Parallel()

	router, repos, user := newGoalRig(t)

	goal := &models.Goal{
		UserID:      user.ID,
		Title:       "Reduce Notifications",
		Category:    models.GoalCategoryNotifications,
		TargetValue: 50,
		Unit:        "count",
		Status:      models.GoalStatusOnTrack,
	}
	if err := repos.Goals.Insert(context.Background(), goal); err != nil {
		t.Fatalf("insert goal: %v", err)
	}

	req := authedRequest("DELETE", "/goals/1", "", user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}

	stored, err := repos.Goals.SelectByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("list goals: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("expected goal to be gone, found %d", len(stored))
	}
}

func TestGoalsRequireUserContext(t *testing.T) {
	t.Parallel()

	router, _, _ := newGoalRig(t)

	req := httptest.NewRequest("GET", "/goals", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", w.Code)
	}
}
