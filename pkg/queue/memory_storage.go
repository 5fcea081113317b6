package queue

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements the queue repository interfaces for tests and
// local development. Jobs whose processing lock expired are claimable again,
// which makes dead-worker recovery observable without a real database.
type MemoryStorage struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

// NewMemoryStorage creates a new in-memory queue storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		jobs: make(map[uuid.UUID]*Job),
	}
}

// CreateJob implements EnqueuerRepository.
func (ms *MemoryStorage) CreateJob(ctx context.Context, job *Job) error {
	if job == nil {
		return ErrPayloadNil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.ID]; exists {
		return fmt.Errorf("job with ID %s already exists", job.ID)
	}

	// Clone to prevent external modification after enqueue.
	jobCopy := *job
	ms.jobs[job.ID] = &jobCopy

	return nil
}

// ClaimJob implements WorkerRepository. The oldest ready job wins; a job is
// ready when it is pending and due, or processing with an expired lock.
func (ms *MemoryStorage) ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	var best *Job

	for _, job := range ms.jobs {
		if !slices.Contains(queues, job.Queue) {
			continue
		}
		if !ms.claimable(job, now) {
			continue
		}
		if best == nil || job.ScheduledAt.Before(best.ScheduledAt) {
			best = job
		}
	}

	if best == nil {
		return nil, ErrNoJobToClaim
	}

	lockUntil := now.Add(lockDuration)
	best.Status = JobStatusProcessing
	best.LockedUntil = &lockUntil
	best.LockedBy = &workerID

	jobCopy := *best
	return &jobCopy, nil
}

func (ms *MemoryStorage) claimable(job *Job, now time.Time) bool {
	switch job.Status {
	case JobStatusPending:
		return !job.ScheduledAt.After(now)
	case JobStatusProcessing:
		return job.LockedUntil != nil && job.LockedUntil.Before(now)
	}
	return false
}

// CompleteJob implements WorkerRepository.
func (ms *MemoryStorage) CompleteJob(ctx context.Context, jobID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return ErrJobNotFound
	}
	if job.Status != JobStatusProcessing {
		return ErrJobNotProcessing
	}

	now := time.Now()
	job.Status = JobStatusCompleted
	job.ProcessedAt = &now
	job.LockedUntil = nil
	job.LockedBy = nil

	return nil
}

// FailJob implements WorkerRepository.
func (ms *MemoryStorage) FailJob(ctx context.Context, jobID uuid.UUID, errMsg string, retryAt time.Time) (*Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, ErrJobNotFound
	}
	if job.Status != JobStatusProcessing {
		return nil, ErrJobNotProcessing
	}

	job.Attempts++
	job.Error = &errMsg
	job.LockedUntil = nil
	job.LockedBy = nil

	if job.Attempts >= job.MaxAttempts {
		now := time.Now()
		job.Status = JobStatusFailed
		job.ProcessedAt = &now
	} else {
		job.Status = JobStatusPending
		job.ScheduledAt = retryAt
	}

	jobCopy := *job
	return &jobCopy, nil
}

// DiscardJob implements WorkerRepository.
func (ms *MemoryStorage) DiscardJob(ctx context.Context, jobID uuid.UUID, errMsg string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return ErrJobNotFound
	}

	now := time.Now()
	job.Status = JobStatusFailed
	job.Error = &errMsg
	job.ProcessedAt = &now
	job.LockedUntil = nil
	job.LockedBy = nil

	return nil
}

// GetJob returns a copy of a job, for tests and inspection.
func (ms *MemoryStorage) GetJob(jobID uuid.UUID) (*Job, bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	job, exists := ms.jobs[jobID]
	if !exists {
		return nil, false
	}
	jobCopy := *job
	return &jobCopy, true
}

// Jobs returns copies of all stored jobs, for tests and inspection.
func (ms *MemoryStorage) Jobs() []*Job {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]*Job, 0, len(ms.jobs))
	for _, job := range ms.jobs {
		jobCopy := *job
		out = append(out, &jobCopy)
	}
	return out
}
