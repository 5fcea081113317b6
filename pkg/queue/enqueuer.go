package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnqueuerRepository defines the interface for job creation.
type EnqueuerRepository interface {
	CreateJob(ctx context.Context, job *Job) error
}

// Enqueuer adds jobs to the queue. It is safe for concurrent use.
type Enqueuer struct {
	repo         EnqueuerRepository
	defaultQueue string
}

// NewEnqueuer creates a new Enqueuer.
func NewEnqueuer(repo EnqueuerRepository, opts ...EnqueuerOption) (*Enqueuer, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &enqueuerOptions{
		defaultQueue: DefaultQueueName,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Enqueuer{
		repo:         repo,
		defaultQueue: options.defaultQueue,
	}, nil
}

// Enqueue adds a new job to the queue. The payload is JSON-marshaled and the
// job name defaults to the payload's type name, matching NewJobHandler.
func (e *Enqueuer) Enqueue(ctx context.Context, payload any, opts ...EnqueueOption) error {
	if payload == nil {
		return ErrPayloadNil
	}

	options := &enqueueOptions{
		queue:       e.defaultQueue,
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(options)
	}

	job, err := e.buildJob(payload, options)
	if err != nil {
		return err
	}

	if err := e.repo.CreateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to create job %q in queue %q: %w", job.Name, job.Queue, err)
	}

	return nil
}

func (e *Enqueuer) buildJob(payload any, options *enqueueOptions) (*Job, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload of type %T: %w", payload, err)
	}

	name := options.jobName
	if name == "" {
		name = qualifiedStructName(payload)
	}

	scheduledAt := time.Now()
	if options.scheduledAt != nil {
		scheduledAt = *options.scheduledAt
	} else if options.delay > 0 {
		scheduledAt = scheduledAt.Add(options.delay)
	}

	return &Job{
		ID:          uuid.New(),
		Queue:       options.queue,
		Name:        name,
		Payload:     payloadBytes,
		Status:      JobStatusPending,
		MaxAttempts: options.maxAttempts,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now(),
	}, nil
}
