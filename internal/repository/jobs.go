package repository

import (
	"context"
	"time"
)

// Job is a row in the background job queue.
type Job struct {
	ID             int64
	JobType        string
	Queue          string
	Payload        []byte
	Priority       int32
	Status         string
	RetryCount     int32
	MaxRetries     int32
	ScheduledAt    time.Time
	TimeoutSeconds int32
	WorkerID       *string
	LastError      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Job statuses.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

const jobColumns = `id, job_type, queue, payload, priority, status, retry_count, max_retries, scheduled_at, timeout_seconds, worker_id, last_error, created_at, updated_at`

func scanJob(row interface{ Scan(dest ...any) error }) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID,
		&j.JobType,
		&j.Queue,
		&j.Payload,
		&j.Priority,
		&j.Status,
		&j.RetryCount,
		&j.MaxRetries,
		&j.ScheduledAt,
		&j.TimeoutSeconds,
		&j.WorkerID,
		&j.LastError,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

// EnqueueJobParams describes a job to enqueue.
type EnqueueJobParams struct {
	JobType        string
	Queue          string
	Payload        []byte
	Priority       int32
	MaxRetries     int32
	ScheduledAt    time.Time
	TimeoutSeconds int32
}

const enqueueJob = `
INSERT INTO jobs (job_type, queue, payload, priority, status, max_retries, scheduled_at, timeout_seconds)
VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)
RETURNING ` + jobColumns + `
`

func (q *Queries) EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, enqueueJob,
		arg.JobType,
		arg.Queue,
		arg.Payload,
		arg.Priority,
		arg.MaxRetries,
		arg.ScheduledAt,
		arg.TimeoutSeconds,
	))
}

const claimNextJob = `
UPDATE jobs
SET status = 'processing', worker_id = $2, updated_at = now()
WHERE id = (
    SELECT id
    FROM jobs
    WHERE status = 'pending'
      AND scheduled_at <= now()
      AND ($1::text = '' OR queue = $1)
    ORDER BY priority DESC, scheduled_at
    LIMIT 1
    FOR UPDATE SKIP LOCKED
)
RETURNING ` + jobColumns + `
`

// ClaimNextJob atomically claims the highest-priority runnable job.
// SKIP LOCKED lets concurrent workers poll without contending. Returns
// pgx.ErrNoRows when the queue is empty.
func (q *Queries) ClaimNextJob(ctx context.Context, queue, workerID string) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, claimNextJob, queue, workerID))
}

const completeJob = `
UPDATE jobs
SET status = 'completed', updated_at = now()
WHERE id = $1
`

func (q *Queries) CompleteJob(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, completeJob, id)
	return err
}

const failJob = `
UPDATE jobs
SET status = CASE WHEN retry_count + 1 >= max_retries THEN 'failed' ELSE 'pending' END,
    retry_count = retry_count + 1,
    scheduled_at = now() + make_interval(secs => 30 * power(2, retry_count)),
    last_error = $2,
    worker_id = NULL,
    updated_at = now()
WHERE id = $1
RETURNING ` + jobColumns + `
`

// FailJob records a failure. Jobs with retries left go back to pending
// with exponential backoff; exhausted jobs land in failed.
func (q *Queries) FailJob(ctx context.Context, id int64, errMsg string) (Job, error) {
	return scanJob(q.db.QueryRow(ctx, failJob, id, errMsg))
}

const deleteCompletedJobsBefore = `
DELETE FROM jobs
WHERE status = 'completed' AND updated_at < $1
`

func (q *Queries) DeleteCompletedJobsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCompletedJobsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
