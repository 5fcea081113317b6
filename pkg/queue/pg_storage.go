package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage implements the queue repository interfaces on PostgreSQL.
// Claiming uses FOR UPDATE SKIP LOCKED so concurrent workers never block
// each other or claim the same job twice.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a PostgreSQL-backed queue storage.
func NewPGStorage(pool *pgxpool.Pool) (*PGStorage, error) {
	if pool == nil {
		return nil, ErrRepositoryNil
	}
	return &PGStorage{pool: pool}, nil
}

const jobColumns = `id, queue, name, payload, status, attempts, max_attempts,
	scheduled_at, locked_until, locked_by, processed_at, error, created_at`

// CreateJob implements EnqueuerRepository.
func (s *PGStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return ErrPayloadNil
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO jobs (id, queue, name, payload, status, attempts, max_attempts, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.Queue, job.Name, job.Payload, job.Status,
		job.Attempts, job.MaxAttempts, job.ScheduledAt, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// ClaimJob implements WorkerRepository. Pending jobs that are due and
// processing jobs with expired locks are both claimable; the oldest
// scheduled job wins.
func (s *PGStorage) ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE jobs SET
			status = 'processing',
			locked_by = $1,
			locked_until = now() + $2
		WHERE id = (
			SELECT id FROM jobs
			WHERE queue = ANY($3)
			  AND scheduled_at <= now()
			  AND (status = 'pending' OR (status = 'processing' AND locked_until < now()))
			ORDER BY scheduled_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING `+jobColumns,
		workerID, lockDuration, queues,
	)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoJobToClaim
		}
		return nil, fmt.Errorf("claim job: %w", err)
	}
	return job, nil
}

// CompleteJob implements WorkerRepository.
func (s *PGStorage) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET
			status = 'completed',
			processed_at = now(),
			locked_until = NULL,
			locked_by = NULL
		WHERE id = $1 AND status = 'processing'`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotProcessing
	}
	return nil
}

// FailJob implements WorkerRepository. The attempt increment and the
// exhaustion check happen in one statement so racing workers cannot push
// attempts past max_attempts.
func (s *PGStorage) FailJob(ctx context.Context, jobID uuid.UUID, errMsg string, retryAt time.Time) (*Job, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE jobs SET
			attempts = attempts + 1,
			error = $2,
			locked_until = NULL,
			locked_by = NULL,
			status = CASE WHEN attempts + 1 >= max_attempts THEN 'failed' ELSE 'pending' END,
			processed_at = CASE WHEN attempts + 1 >= max_attempts THEN now() ELSE processed_at END,
			scheduled_at = CASE WHEN attempts + 1 >= max_attempts THEN scheduled_at ELSE $3 END
		WHERE id = $1 AND status = 'processing'
		RETURNING `+jobColumns,
		jobID, errMsg, retryAt,
	)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotProcessing
		}
		return nil, fmt.Errorf("fail job: %w", err)
	}
	return job, nil
}

// DiscardJob implements WorkerRepository.
func (s *PGStorage) DiscardJob(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE jobs SET
			status = 'failed',
			error = $2,
			processed_at = now(),
			locked_until = NULL,
			locked_by = NULL
		WHERE id = $1`,
		jobID, errMsg,
	)
	if err != nil {
		return fmt.Errorf("discard job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.Queue, &job.Name, &job.Payload, &job.Status,
		&job.Attempts, &job.MaxAttempts, &job.ScheduledAt,
		&job.LockedUntil, &job.LockedBy, &job.ProcessedAt, &job.Error,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
