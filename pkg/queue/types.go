package queue

import (
	"time"

	"github.com/google/uuid"
)

// DefaultQueueName is used when no queue is specified.
const DefaultQueueName = "default"

// JobStatus represents the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job is one unit of queued work. Jobs are delivered at least once: a worker
// that crashes mid-job leaves an expired lock behind, and the job becomes
// claimable again. Handlers must therefore tolerate duplicate delivery.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Queue       string     `json:"queue"`
	Name        string     `json:"name"`
	Payload     []byte     `json:"payload,omitempty"`
	Status      JobStatus  `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LockedBy    *uuid.UUID `json:"locked_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Config holds worker tuning loaded from the environment.
type Config struct {
	PollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	LockTimeout       time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	RequeueDelay      time.Duration `env:"QUEUE_REQUEUE_DELAY" envDefault:"30s"`
	MaxConcurrentJobs int           `env:"QUEUE_MAX_CONCURRENT_JOBS" envDefault:"10"`
}
