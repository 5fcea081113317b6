package queue

import "time"

// EnqueuerOption is a functional option for configuring an Enqueuer.
type EnqueuerOption func(*enqueuerOptions)

type enqueuerOptions struct {
	defaultQueue string
}

// WithDefaultQueue sets the default queue name.
func WithDefaultQueue(queue string) EnqueuerOption {
	return func(o *enqueuerOptions) {
		if queue != "" {
			o.defaultQueue = queue
		}
	}
}

// EnqueueOption is a functional option for the Enqueue method.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	queue       string
	maxAttempts int
	delay       time.Duration
	scheduledAt *time.Time
	jobName     string
}

// WithQueue sets the queue for the job.
func WithQueue(queue string) EnqueueOption {
	return func(o *enqueueOptions) {
		if queue != "" {
			o.queue = queue
		}
	}
}

// WithMaxAttempts sets how many times a job may be attempted (1-10).
// Capped to prevent infinite retry loops on persistent failures.
func WithMaxAttempts(n int) EnqueueOption {
	return func(o *enqueueOptions) {
		if n >= 1 && n <= 10 {
			o.maxAttempts = n
		}
	}
}

// WithDelay sets a delay before the job can be processed.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(o *enqueueOptions) {
		if delay > 0 {
			o.delay = delay
		}
	}
}

// WithScheduledAt sets a specific time for the job to be processed.
func WithScheduledAt(scheduledAt time.Time) EnqueueOption {
	return func(o *enqueueOptions) {
		o.scheduledAt = &scheduledAt
	}
}

// WithJobName sets a custom job name overriding the payload type name.
func WithJobName(name string) EnqueueOption {
	return func(o *enqueueOptions) {
		if name != "" {
			o.jobName = name
		}
	}
}
