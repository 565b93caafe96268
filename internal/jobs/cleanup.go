package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/snuggle-shop/snuggle/internal/repository"
)

// Job type constants for cleanup jobs.
const (
	JobTypeCleanupCompletedJobs = "cleanup:completed_jobs"
)

// CleanupCompletedJobsPayload configures how far back to keep
// completed job rows.
type CleanupCompletedJobsPayload struct {
	RetainDays int `json:"retain_days"`
}

// EnqueueCleanupCompletedJobs enqueues a maintenance job that purges
// old completed queue rows. Meant to run on a schedule.
func EnqueueCleanupCompletedJobs(ctx context.Context, q repository.Querier, retainDays int) error {
	payloadJSON, err := json.Marshal(CleanupCompletedJobsPayload{RetainDays: retainDays})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeCleanupCompletedJobs,
		Queue:          "cleanup",
		Payload:        payloadJSON,
		Priority:       10, // Maintenance runs after everything else
		MaxRetries:     1,  // Next scheduled run retries implicitly
		ScheduledAt:    time.Now(),
		TimeoutSeconds: 60,
	})

	return err
}

// ProcessCleanupJob processes a cleanup job and returns the number of
// rows removed.
func ProcessCleanupJob(ctx context.Context, job *repository.Job, q repository.Querier) (int64, error) {
	switch job.JobType {
	case JobTypeCleanupCompletedJobs:
		var payload CleanupCompletedJobsPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return 0, fmt.Errorf("failed to unmarshal cleanup payload: %w", err)
		}
		if payload.RetainDays <= 0 {
			payload.RetainDays = 30
		}

		cutoff := time.Now().AddDate(0, 0, -payload.RetainDays)
		deleted, err := q.DeleteCompletedJobsBefore(ctx, cutoff)
		if err != nil {
			return 0, fmt.Errorf("failed to delete completed jobs: %w", err)
		}
		return deleted, nil

	default:
		return 0, fmt.Errorf("unknown cleanup job type: %s", job.JobType)
	}
}

// IsCleanupJob reports whether a job type is handled by ProcessCleanupJob.
func IsCleanupJob(jobType string) bool {
	return jobType == JobTypeCleanupCompletedJobs
}
