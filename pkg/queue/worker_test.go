package queue_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/queue"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(t *testing.T, ms *queue.MemoryStorage, handlers ...queue.Handler) *queue.Worker {
	t.Helper()
	w, err := queue.NewWorker(ms,
		queue.WithPollInterval(10*time.Millisecond),
		queue.WithMaxConcurrentJobs(4),
		queue.WithWorkerLogger(discardLogger()),
	)
	require.NoError(t, err)
	w.RegisterHandlers(handlers...)
	return w
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestNewWorker_NilRepository(t *testing.T) {
	w, err := queue.NewWorker(nil)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, queue.ErrRepositoryNil)
}

func TestWorker_StartWithoutHandlers(t *testing.T) {
	w, err := queue.NewWorker(queue.NewMemoryStorage())
	require.NoError(t, err)
	assert.ErrorIs(t, w.Start(context.Background()), queue.ErrNoHandlers)
}

func TestWorker_ProcessesJob(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	var got atomic.Value
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		got.Store(p.Value)
		return nil
	})

	w := newTestWorker(t, ms, handler)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{Value: "hello"}))

	waitFor(t, 2*time.Second, func() bool { return got.Load() != nil })
	assert.Equal(t, "hello", got.Load())

	waitFor(t, 2*time.Second, func() bool {
		jobs := ms.Jobs()
		return len(jobs) == 1 && jobs[0].Status == queue.JobStatusCompleted
	})
}

func TestWorker_RetriesThenExhausts(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	var calls atomic.Int32
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		calls.Add(1)
		return errors.New("always fails")
	})

	w, err := queue.NewWorker(ms,
		queue.WithPollInterval(10*time.Millisecond),
		queue.WithRequeueDelay(time.Millisecond),
		queue.WithWorkerLogger(discardLogger()),
	)
	require.NoError(t, err)
	w.RegisterHandlers(handler)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{}, queue.WithMaxAttempts(2)))

	waitFor(t, 2*time.Second, func() bool {
		jobs := ms.Jobs()
		return len(jobs) == 1 && jobs[0].Status == queue.JobStatusFailed
	})
	assert.Equal(t, int32(2), calls.Load())
}

func TestWorker_PanicIsFailure(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		panic("boom")
	})

	w, err := queue.NewWorker(ms,
		queue.WithPollInterval(10*time.Millisecond),
		queue.WithRequeueDelay(time.Millisecond),
		queue.WithWorkerLogger(discardLogger()),
	)
	require.NoError(t, err)
	w.RegisterHandlers(handler)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{}, queue.WithMaxAttempts(1)))

	waitFor(t, 2*time.Second, func() bool {
		jobs := ms.Jobs()
		return len(jobs) == 1 && jobs[0].Status == queue.JobStatusFailed
	})

	jobs := ms.Jobs()
	require.NotNil(t, jobs[0].Error)
	assert.Contains(t, *jobs[0].Error, "panic in handler")
}

func TestWorker_MissingHandlerDiscards(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	known := queue.NewJobHandler(func(ctx context.Context, p testPayload) error { return nil })

	w := newTestWorker(t, ms, known)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{}, queue.WithJobName("unknown.job")))

	waitFor(t, 2*time.Second, func() bool {
		jobs := ms.Jobs()
		return len(jobs) == 1 && jobs[0].Status == queue.JobStatusFailed
	})

	jobs := ms.Jobs()
	require.NotNil(t, jobs[0].Error)
	assert.Contains(t, *jobs[0].Error, "no handler registered")
}

func TestWorker_DelayedJobWaits(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	var calls atomic.Int32
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		calls.Add(1)
		return nil
	})

	w := newTestWorker(t, ms, handler)
	require.NoError(t, w.Start(context.Background()))
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{}, queue.WithDelay(100*time.Millisecond)))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls.Load(), "delayed job must not run before its schedule")

	waitFor(t, 2*time.Second, func() bool { return calls.Load() == 1 })
}

func TestWorker_StopIsGraceful(t *testing.T) {
	ms := queue.NewMemoryStorage()
	enq, err := queue.NewEnqueuer(ms)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	handler := queue.NewJobHandler(func(ctx context.Context, p testPayload) error {
		close(started)
		<-release
		return nil
	})

	w := newTestWorker(t, ms, handler)
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, enq.Enqueue(context.Background(), testPayload{}))
	<-started

	stopDone := make(chan struct{})
	go func() {
		_ = w.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		t.Fatal("Stop returned while a job was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-stopDone

	waitFor(t, 2*time.Second, func() bool {
		jobs := ms.Jobs()
		return len(jobs) == 1 && jobs[0].Status == queue.JobStatusCompleted
	})
}
