package workers

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/models"
	"github.com/awarehq/aware-api/internal/queue"
	"github.com/awarehq/aware-api/internal/services/insights"
)

// insightsLookback is how much usage history the insight rules see. Two
// weeks covers the week-over-week comparison.
const insightsLookback = 14 * 24 * time.Hour

// UsageSyncer ingests queued usage batches and refreshes recommendations
type UsageSyncer struct {
	repos    *database.Repositories
	insights insights.Provider
	queue    queue.JobQueue
	logger   *zap.Logger
}

// NewUsageSyncer creates a new usage syncer. The queue is used to re-publish
// failed jobs with their retry count bumped.
func NewUsageSyncer(repos *database.Repositories, provider insights.Provider, jobQueue queue.JobQueue, logger *zap.Logger) *UsageSyncer {
	return &UsageSyncer{repos: repos, insights: provider, queue: jobQueue, logger: logger}
}

// ProcessUsageSyncJob records the job's usage rows, bumps the user's last
// sync date and regenerates recommendations from the updated picture.
func (s *UsageSyncer) ProcessUsageSyncJob(ctx context.Context, job *queue.Job) error {
	if len(job.Usage) == 0 {
		return fmt.Errorf("usage sync job %s carries no usage rows", job.ID)
	}

	for _, row := range job.Usage {
		row.UserID = job.UserID
		if err := s.repos.Usage.Insert(ctx, row); err != nil {
			return fmt.Errorf("failed to record usage row: %w", err)
		}
	}

	if err := s.repos.Users.UpdateLastSyncDate(ctx, job.UserID, time.Now()); err != nil {
		return fmt.Errorf("failed to update last sync date: %w", err)
	}

	if err := s.refreshInsights(ctx, job.UserID); err != nil {
		return err
	}

	s.logger.Info("usage batch recorded",
		zap.String("job_id", job.ID.String()),
		zap.Int64("user_id", job.UserID),
		zap.Int("rows", len(job.Usage)),
	)
	return nil
}

// ProcessInsightsRefreshJob regenerates recommendations without new usage
func (s *UsageSyncer) ProcessInsightsRefreshJob(ctx context.Context, job *queue.Job) error {
	return s.refreshInsights(ctx, job.UserID)
}

func (s *UsageSyncer) refreshInsights(ctx context.Context, userID int64) error {
	user, err := s.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	goals, err := s.repos.Goals.SelectByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	usage, err := s.repos.Usage.SelectByUserSince(ctx, userID, time.Now().Add(-insightsLookback))
	if err != nil {
		return fmt.Errorf("failed to load usage history: %w", err)
	}

	privacy, err := s.repos.Privacy.SelectByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load privacy data: %w", err)
	}

	recs, err := s.insights.Generate(ctx, insights.Snapshot{
		User:    user,
		Goals:   goals,
		Usage:   usage,
		Privacy: privacy,
		Now:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to generate insights: %w", err)
	}

	inserted := 0
	for _, rec := range recs {
		if s.alreadySurfaced(ctx, userID, rec) {
			continue
		}
		if err := s.repos.Recommendations.Insert(ctx, rec); err != nil {
			return fmt.Errorf("failed to store recommendation: %w", err)
		}
		inserted++
	}

	s.logger.Info("insights refreshed",
		zap.Int64("user_id", userID),
		zap.Int("generated", len(recs)),
		zap.Int("inserted", inserted),
	)
	return nil
}

// alreadySurfaced suppresses duplicate nudges: a recommendation with the
// same title from the last day is not inserted again.
func (s *UsageSyncer) alreadySurfaced(ctx context.Context, userID int64, rec *models.Recommendation) bool {
	existing, err := s.repos.Recommendations.SelectByUserID(ctx, userID)
	if err != nil {
		return false
	}
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, prior := range existing {
		if prior.Title == rec.Title && prior.CreatedAt.After(cutoff) {
			return true
		}
	}
	return false
}

// ProcessJob dispatches a message based on its job type. The message is
// acked on success, re-published while retries remain and dead-lettered
// after.
func (s *UsageSyncer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		// Not ready yet; put it back and let the broker redeliver.
		if nackErr := msg.Nack(true); nackErr != nil {
			s.logger.Error("failed to requeue early job", zap.Error(nackErr))
		}
		return nil
	}

	var err error
	switch job.Type {
	case queue.JobTypeUsageSync:
		err = s.ProcessUsageSyncJob(ctx, job)
	case queue.JobTypeInsightsRefresh:
		err = s.ProcessInsightsRefreshJob(ctx, job)
	default:
		if nackErr := msg.Nack(false); nackErr != nil {
			s.logger.Error("failed to dead-letter unknown job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		return s.handleJobError(ctx, msg, job, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// handleJobError re-publishes a failed job with RetryCount incremented and
// acks the original delivery. A plain nack(true) would redeliver the
// published bytes, so the bumped count would never reach the broker and the
// job would retry forever.
func (s *UsageSyncer) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if job.CanRetry() && s.queue != nil {
		retry := *job
		retry.RetryCount = job.RetryCount + 1

		if enqueueErr := s.queue.Enqueue(ctx, &retry); enqueueErr != nil {
			s.logger.Error("failed to re-enqueue job, dead-lettering",
				zap.String("job_id", job.ID.String()),
				zap.Error(enqueueErr),
			)
			if nackErr := msg.Nack(false); nackErr != nil {
				s.logger.Error("failed to dead-letter job", zap.Error(nackErr))
			}
			return fmt.Errorf("job failed, re-enqueue failed: %w", err)
		}

		if ackErr := msg.Ack(); ackErr != nil {
			s.logger.Error("failed to ack job after re-enqueue", zap.Error(ackErr))
		}
		s.logger.Warn("job failed, will retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", retry.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	s.logger.Error("job failed, dead-lettering",
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		s.logger.Error("failed to dead-letter job", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
