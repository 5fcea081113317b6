package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided.
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload.
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrNoJobToClaim is returned by repositories when no job is ready.
	// Workers treat it as an idle tick, not an error.
	ErrNoJobToClaim = errors.New("no job available to claim")

	// ErrHandlerNotFound is returned when no handler is registered for a job name.
	ErrHandlerNotFound = errors.New("no handler registered for job name")

	// ErrNoHandlers is returned when a worker is started with no handlers registered.
	ErrNoHandlers = errors.New("no job handlers registered")

	// ErrJobNotFound is returned when a job id resolves to nothing.
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotProcessing is returned on completion/failure of a job that is
	// not currently claimed, usually because its lock expired and another
	// worker already re-processed it.
	ErrJobNotProcessing = errors.New("job is not in processing state")
)
