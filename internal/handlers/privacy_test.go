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
)

func TestComputePrivacyScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		data           []*models.PrivacyData
		wantScore      int
		wantLevel      models.RiskLevel
		wantHighAccess int
	}{
		{
			name:      "no apps",
			data:      nil,
			wantScore: 0,
			wantLevel: models.RiskLevelLow,
		},
		{
			name: "mixed risk",
			data: []*models.PrivacyData{
				{AppName: "TikTok", RiskLevel: models.RiskLevelHigh},
				{AppName: "Facebook", RiskLevel: models.RiskLevelMedium},
				{AppName: "Notes", RiskLevel: models.RiskLevelLow},
			},
			wantScore:      33,
			wantLevel:      models.RiskLevelLow,
			wantHighAccess: 1,
		},
		{
			name: "saturates at 100",
			data: []*models.PrivacyData{
				{RiskLevel: models.RiskLevelHigh}, {RiskLevel: models.RiskLevelHigh},
				{RiskLevel: models.RiskLevelHigh}, {RiskLevel: models.RiskLevelHigh},
				{RiskLevel: models.RiskLevelHigh}, {RiskLevel: models.RiskLevelHigh},
			},
			wantScore:      100,
			wantLevel:      models.RiskLevelHigh,
			wantHighAccess: 6,
		},
		{
			name: "medium band",
			data: []*models.PrivacyData{
				{RiskLevel: models.RiskLevelHigh},
				{RiskLevel: models.RiskLevelHigh},
				{RiskLevel: models.RiskLevelMedium},
			},
			wantScore:      50,
			wantLevel:      models.RiskLevelMedium,
			wantHighAccess: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := computePrivacyScore(tt.data)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.RiskLevel != tt.wantLevel {
				t.Errorf("RiskLevel = %q, want %q", got.RiskLevel, tt.wantLevel)
			}
			if got.AppsWithHighAccess != tt.wantHighAccess {
				t.Errorf("AppsWithHighAccess = %d, want %d", got.AppsWithHighAccess, tt.wantHighAccess)
			}
		})
	}
}

func TestGetPrivacyScore(t *testing.T) {
	t.Parallel()

	repos := database.NewMemoryRepositories()
	user := newTestUser(t, repos)

	data := []*models.PrivacyData{
		{UserID: user.ID, AppName: "TikTok", RiskLevel: models.RiskLevelHigh, Permissions: []string{"location", "camera"}},
		{UserID: user.ID, AppName: "Facebook", RiskLevel: models.RiskLevelMedium, Permissions: []string{"contacts"}},
	}
	for _, d := range data {
		if err := repos.Privacy.Upsert(context.Background(), d); err != nil {
			t.Fatalf("upsert privacy: %v", err)
		}
	}

	handler := NewPrivacyHandler(repos.Privacy, zap.NewNop())
	router := mux.NewRouter()
	handler.RegisterRoutes(router.PathPrefix("/privacy").Subrouter())

	req := authedRequest("GET", "/privacy/score", "", user)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data models.PrivacyScore `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Score != 30 {
		t.Errorf("Score = %d, want 30", resp.Data.Score)
	}
	if resp.Data.AppsWithHighAccess != 1 {
		t.Errorf("AppsWithHighAccess = %d, want 1", resp.Data.AppsWithHighAccess)
	}
}
