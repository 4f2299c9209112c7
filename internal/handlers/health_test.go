package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error        { return p.err }
func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthCheckBasicMode(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(nil, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	checker.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q", resp.Status)
	}
	if resp.Checks != nil {
		t.Error("basic mode must not run dependency checks")
	}
}

func TestHealthCheckExtendedMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		db         error
		redis      error
		queue      error
		wantStatus int
		wantHealth string
	}{
		{
			name:       "all healthy",
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name:       "database down",
			db:         errors.New("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name:       "queue down",
			queue:      errors.New("channel closed"),
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthChecker(fakePinger{tt.db}, fakePinger{tt.redis}, &fakeQueue{failing: tt.queue != nil})

			req := httptest.NewRequest("GET", "/healthz?mode=extended", nil)
			w := httptest.NewRecorder()

			checker.HealthCheck(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantHealth)
			}
			if len(resp.Checks) != 3 {
				t.Errorf("expected 3 checks, got %v", resp.Checks)
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	t.Parallel()

	handler := VersionEndpoint("1.2.3", "abc1234")

	req := httptest.NewRequest("GET", "/version", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data["version"] != "1.2.3" || resp.Data["commit"] != "abc1234" {
		t.Errorf("unexpected version payload: %v", resp.Data)
	}
}
