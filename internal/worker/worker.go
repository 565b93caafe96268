// Package worker runs background jobs from the database-backed queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/email"
	"github.com/snuggle-shop/snuggle/internal/jobs"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

// Config holds worker configuration.
type Config struct {
	// WorkerID uniquely identifies this worker instance.
	WorkerID string

	// PollInterval is how often to check for new jobs.
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs processed at once.
	MaxConcurrency int

	// Queue name to process (empty string = all queues).
	Queue string
}

// Worker polls the job queue and dispatches jobs to their processors.
type Worker struct {
	config       Config
	queries      repository.Querier
	emailService *email.Service
	logger       *slog.Logger

	wg sync.WaitGroup
}

// New creates a background job worker.
func New(queries repository.Querier, emailService *email.Service, config Config, logger *slog.Logger) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}

	return &Worker{
		config:       config,
		queries:      queries,
		emailService: emailService,
		logger:       logger,
	}
}

// Start processes jobs until the context is cancelled, then waits for
// in-flight jobs to finish.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"queue", w.config.Queue,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.config.MaxConcurrency)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			w.wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			select {
			case sem <- struct{}{}:
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }()
					w.claimAndProcess(ctx)
				}()
			default:
				// At max concurrency, skip this poll.
			}
		}
	}
}

// claimAndProcess claims and processes a single job.
func (w *Worker) claimAndProcess(ctx context.Context) {
	job, err := w.queries.ClaimNextJob(ctx, w.config.Queue, w.config.WorkerID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			w.logger.Error("failed to claim job", "error", err)
		}
		return
	}

	w.logger.Info("processing job",
		"job_id", job.ID,
		"job_type", job.JobType,
		"retry_count", job.RetryCount,
	)

	if err := w.processJob(ctx, &job); err != nil {
		w.logger.Error("job failed",
			"job_id", job.ID,
			"job_type", job.JobType,
			"error", err,
		)
		if _, failErr := w.queries.FailJob(ctx, job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to record job failure", "job_id", job.ID, "error", failErr)
		}
		return
	}

	w.logger.Info("job completed", "job_id", job.ID, "job_type", job.JobType)

	if err := w.queries.CompleteJob(ctx, job.ID); err != nil {
		w.logger.Error("failed to mark job completed", "job_id", job.ID, "error", err)
	}
}

// processJob dispatches a claimed job by type, bounded by the job's
// timeout.
func (w *Worker) processJob(ctx context.Context, job *repository.Job) error {
	jobCtx, cancel := context.WithTimeout(ctx, time.Duration(job.TimeoutSeconds)*time.Second)
	defer cancel()

	if jobs.IsEmailJob(job.JobType) {
		return jobs.ProcessEmailJob(jobCtx, job, w.emailService)
	}

	if jobs.IsCleanupJob(job.JobType) {
		deleted, err := jobs.ProcessCleanupJob(jobCtx, job, w.queries)
		if err != nil {
			return err
		}
		w.logger.Info("cleanup removed completed jobs", "job_id", job.ID, "deleted", deleted)
		return nil
	}

	return fmt.Errorf("unknown job type: %s", job.JobType)
}
