package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/awarehq/aware-api/internal/models"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeUsageSync ingests a batch of usage snapshots for a user and
	// refreshes their recommendations.
	JobTypeUsageSync JobType = "usage_sync"
	// JobTypeInsightsRefresh re-runs the insights generator without new
	// usage data.
	JobTypeInsightsRefresh JobType = "insights_refresh"
)

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID          `json:"id"`
	Type       JobType            `json:"type"`
	UserID     int64              `json:"user_id"`
	Usage      []*models.AppUsage `json:"usage,omitempty"`      // Payload for usage_sync jobs
	NotBefore  *time.Time         `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time         `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any     `json:"metadata,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, userID int64) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		UserID:     userID,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewUsageSyncJob creates a usage_sync job carrying the submitted snapshots.
func NewUsageSyncJob(userID int64, usage []*models.AppUsage) *Job {
	job := NewJob(JobTypeUsageSync, userID)
	job.Usage = usage
	return job
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
