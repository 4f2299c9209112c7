package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is anything that can verify a backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabasePinger matches database/sql's ping surface.
type DatabasePinger interface {
	PingContext(ctx context.Context) error
}

// QueueChecker matches the job queue's health surface.
type QueueChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	db    DatabasePinger
	redis Pinger
	queue QueueChecker
}

// NewHealthChecker creates a new health checker. Nil dependencies are
// skipped, so partial deployments still report on what they have.
func NewHealthChecker(db DatabasePinger, redis Pinger, queue QueueChecker) *HealthChecker {
	return &HealthChecker{db: db, redis: redis, queue: queue}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string)

		if h.db != nil {
			checks["database"] = checkResult(h.db.PingContext(ctx))
		}
		if h.redis != nil {
			checks["redis"] = checkResult(h.redis.Ping(ctx))
		}
		if h.queue != nil {
			checks["queue"] = checkResult(h.queue.HealthCheck(ctx))
		}

		statusCode := http.StatusOK
		for _, result := range checks {
			if result != "healthy" {
				response.Status = "unhealthy"
				statusCode = http.StatusServiceUnavailable
				break
			}
		}
		response.Checks = checks

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func checkResult(err error) string {
	if err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

// VersionEndpoint serves build metadata on /version
func VersionEndpoint(version, commit string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"version": version,
			"commit":  commit,
		})
	}
}
