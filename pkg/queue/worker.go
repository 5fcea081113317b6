package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// WorkerRepository defines the persistence operations a worker needs.
type WorkerRepository interface {
	// ClaimJob atomically claims the next ready job from the given queues.
	// A job is ready when it is pending and due, or when its processing
	// lock has expired (dead worker recovery). Returns ErrNoJobToClaim
	// when nothing is ready.
	ClaimJob(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Job, error)

	// CompleteJob marks a processing job as completed.
	CompleteJob(ctx context.Context, jobID uuid.UUID) error

	// FailJob records a failed attempt. It increments the attempt counter
	// and either reschedules the job for retryAt or, when attempts are
	// exhausted, marks it terminally failed. Returns the updated job.
	FailJob(ctx context.Context, jobID uuid.UUID, errMsg string, retryAt time.Time) (*Job, error)

	// DiscardJob terminally fails a job regardless of its remaining
	// attempts. Used when retrying cannot help, e.g. no handler exists.
	DiscardJob(ctx context.Context, jobID uuid.UUID, errMsg string) error
}

// Worker processes jobs from the queue with bounded concurrency.
type Worker struct {
	repo     WorkerRepository
	handlers map[string]Handler
	queues   []string
	workerID uuid.UUID
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopMu   sync.Mutex // protects stopping state and WaitGroup operations

	pollInterval time.Duration
	lockTimeout  time.Duration
	requeueDelay time.Duration
	logger       *slog.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	stopping atomic.Bool
}

// NewWorker creates a new job worker.
func NewWorker(repo WorkerRepository, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}

	options := &workerOptions{
		queues:            []string{DefaultQueueName},
		pollInterval:      time.Second,
		lockTimeout:       5 * time.Minute,
		requeueDelay:      30 * time.Second,
		maxConcurrentJobs: 1,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Worker{
		repo:         repo,
		handlers:     make(map[string]Handler),
		queues:       options.queues,
		workerID:     uuid.New(),
		sem:          make(chan struct{}, options.maxConcurrentJobs),
		pollInterval: options.pollInterval,
		lockTimeout:  options.lockTimeout,
		requeueDelay: options.requeueDelay,
		logger:       options.logger,
	}, nil
}

// RegisterHandlers registers job handlers. Nil handlers are ignored;
// a later registration for the same name replaces the earlier one.
func (w *Worker) RegisterHandlers(handlers ...Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, h := range handlers {
		if h != nil {
			w.handlers[h.Name()] = h
		}
	}
}

// Start begins processing jobs in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.cancel != nil {
		w.mu.Unlock()
		return fmt.Errorf("worker already started")
	}

	if len(w.handlers) == 0 {
		w.mu.Unlock()
		return ErrNoHandlers
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.stopping.Store(false)

	go w.run()

	w.logger.Info("worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Any("queues", w.queues),
		slog.Int("max_concurrent", cap(w.sem)))

	return nil
}

// Stop gracefully shuts down the worker, waiting for active jobs to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	if w.cancel == nil {
		w.mu.Unlock()
		return fmt.Errorf("worker not started")
	}

	w.stopMu.Lock()
	w.stopping.Store(true)
	w.stopMu.Unlock()

	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	cancel()

	w.logger.Info("worker stopping, waiting for active jobs to complete",
		slog.String("worker_id", w.workerID.String()))

	w.wg.Wait()

	w.logger.Info("worker stopped", slog.String("worker_id", w.workerID.String()))

	return nil
}

// Run starts the worker and returns a function suitable for errgroup.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()

		return w.Stop()
	}
}

// run is the main claim loop.
func (w *Worker) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			select {
			case w.sem <- struct{}{}:
				// stopMu ensures we never add to the WaitGroup after
				// Stop() started waiting on it.
				w.stopMu.Lock()
				if w.stopping.Load() {
					w.stopMu.Unlock()
					<-w.sem
					return
				}
				w.wg.Add(1)
				w.stopMu.Unlock()

				go func() {
					defer w.wg.Done()
					defer func() { <-w.sem }()

					if err := w.claimAndProcess(); err != nil && !errors.Is(err, ErrHandlerNotFound) {
						w.logger.Error("failed to process job",
							slog.String("worker_id", w.workerID.String()),
							slog.String("error", err.Error()))
					}
				}()
			default:
				// All slots busy, skip this tick.
			}
		}
	}
}

func (w *Worker) claimAndProcess() error {
	job, err := w.repo.ClaimJob(w.ctx, w.workerID, w.queues, w.lockTimeout)
	if err != nil {
		if errors.Is(err, ErrNoJobToClaim) {
			return nil
		}
		return fmt.Errorf("failed to claim job: %w", err)
	}

	return w.processJob(job)
}

func (w *Worker) processJob(job *Job) (retErr error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("panic in handler: %v", r)
			w.logger.Error("handler panicked",
				slog.String("worker_id", w.workerID.String()),
				slog.String("job_id", job.ID.String()),
				slog.String("job_name", job.Name),
				slog.Any("panic", r))
			_ = w.handleJobFailure(job, retErr, time.Since(start))
		}
	}()

	w.mu.RLock()
	handler, ok := w.handlers[job.Name]
	w.mu.RUnlock()

	if !ok {
		return w.handleMissingHandler(job)
	}

	// The job context is bounded by the lock timeout rather than the worker
	// lifecycle, so graceful shutdown lets in-flight jobs finish.
	ctx, cancel := context.WithTimeout(context.Background(), w.lockTimeout)
	defer cancel()

	err := handler.Handle(ctx, job.Payload)
	duration := time.Since(start)

	if err != nil {
		return w.handleJobFailure(job, err, duration)
	}

	if err := w.repo.CompleteJob(w.ctx, job.ID); err != nil {
		return fmt.Errorf("failed to mark job %s as completed: %w", job.ID, err)
	}

	w.logger.Debug("job completed",
		slog.String("worker_id", w.workerID.String()),
		slog.String("job_id", job.ID.String()),
		slog.String("job_name", job.Name),
		slog.Duration("duration", duration))

	return nil
}

// handleMissingHandler terminally fails jobs that have no registered
// handler: retrying cannot help until new code is deployed, and the error
// message preserves the job for operator inspection.
func (w *Worker) handleMissingHandler(job *Job) error {
	w.logger.Error("no handler registered for job name",
		slog.String("worker_id", w.workerID.String()),
		slog.String("job_id", job.ID.String()),
		slog.String("job_name", job.Name))

	if err := w.repo.DiscardJob(w.ctx, job.ID, "no handler registered for job name: "+job.Name); err != nil {
		return fmt.Errorf("failed to discard job %s: %w", job.ID, err)
	}

	return ErrHandlerNotFound
}

func (w *Worker) handleJobFailure(job *Job, execErr error, duration time.Duration) error {
	updated, err := w.repo.FailJob(w.ctx, job.ID, execErr.Error(), time.Now().Add(w.requeueDelay))
	if err != nil {
		return fmt.Errorf("failed to record failure of job %s: %w", job.ID, err)
	}

	w.logger.Error("job failed",
		slog.String("worker_id", w.workerID.String()),
		slog.String("job_id", job.ID.String()),
		slog.String("job_name", job.Name),
		slog.Int("attempts", updated.Attempts),
		slog.Int("max_attempts", updated.MaxAttempts),
		slog.String("status", string(updated.Status)),
		slog.Duration("duration", duration),
		slog.String("error", execErr.Error()))

	return nil
}

// WorkerID returns the unique identifier of this worker instance.
func (w *Worker) WorkerID() uuid.UUID {
	return w.workerID
}
