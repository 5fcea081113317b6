package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/delivery"
	"github.com/dmitrymomot/notifykit/pkg/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/eventreg"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/preferences"
	"github.com/dmitrymomot/notifykit/pkg/queue"
	"github.com/dmitrymomot/notifykit/pkg/template"
)

type fakeDirectory struct {
	users map[string]notify.User
}

func (f *fakeDirectory) GetUser(_ context.Context, id string) (notify.User, error) {
	u, ok := f.users[id]
	if !ok {
		return notify.User{}, fmt.Errorf("%w: %s", notify.ErrUserNotFound, id)
	}
	return u, nil
}

type sentRecord struct {
	Channel notify.Channel
	UserID  string
	Title   string
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []sentRecord
	fail  map[notify.Channel]error
	calls int
}

// Send mimics the real backends' contact checks: a user without the
// address a channel needs is a permanent failure, not a provider fault.
func (f *fakeSender) Send(_ context.Context, ch notify.Channel, user notify.User, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[ch]; ok && err != nil {
		return err
	}
	switch ch {
	case notify.ChannelEmail:
		if user.Email == "" {
			return channel.Permanent("user has no email address", nil)
		}
	case notify.ChannelSMS:
		if user.Phone == "" {
			return channel.Permanent("user has no phone number", nil)
		}
	}
	f.sent = append(f.sent, sentRecord{Channel: ch, UserID: user.ID, Title: n.Title})
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type env struct {
	dispatcher *dispatch.Dispatcher
	deliverer  *dispatch.Deliverer
	sweeper    *dispatch.Sweeper

	events   *eventreg.Registry
	resolver *preferences.Resolver
	tracker  *delivery.Tracker

	notifications *notification.MemoryStorage
	deliveries    *delivery.MemoryStorage
	jobs          *queue.MemoryStorage
	sender        *fakeSender
	users         *fakeDirectory
	cfg           dispatch.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	events, err := eventreg.NewRegistry(eventreg.NewMemoryStorage())
	require.NoError(t, err)
	require.NoError(t, events.Create(ctx, notify.EventType{
		Code:           "new_comment",
		Name:           "New Comment",
		Channels:       []notify.Channel{notify.ChannelInApp, notify.ChannelEmail},
		DefaultEnabled: true,
	}))
	require.NoError(t, events.Create(ctx, notify.EventType{
		Code:           "weekly_summary",
		Name:           "Weekly Summary",
		Channels:       []notify.Channel{notify.ChannelEmail},
		DefaultEnabled: false,
	}))
	require.NoError(t, events.Create(ctx, notify.EventType{
		Code:           "unrecognized_login",
		Name:           "Unrecognized Login",
		Channels:       []notify.Channel{notify.ChannelSMS},
		DefaultEnabled: true,
	}))

	resolver, err := preferences.NewResolver(preferences.NewMemoryStorage())
	require.NoError(t, err)

	notifStorage := notification.NewMemoryStorage()
	delStorage := delivery.NewMemoryStorage()
	storage := dispatch.NewMemoryStorage(notifStorage, delStorage)

	jobs := queue.NewMemoryStorage()
	enqueuer, err := queue.NewEnqueuer(jobs, queue.WithDefaultQueue("notifications"))
	require.NoError(t, err)

	tracker, err := delivery.NewTracker(delStorage)
	require.NoError(t, err)

	cfg := dispatch.Config{
		Queue:       "notifications",
		MaxAttempts: 3,
		BaseDelay:   time.Minute,
		MaxDelay:    time.Hour,
	}

	dispatcher, err := dispatch.NewDispatcher(events, resolver, template.Defaults(), storage, enqueuer, cfg)
	require.NoError(t, err)

	sender := &fakeSender{fail: make(map[notify.Channel]error)}
	users := &fakeDirectory{users: map[string]notify.User{
		"user-1": {ID: "user-1", Email: "one@example.com", Phone: "+15551110001"},
		"user-2": {ID: "user-2", Email: "two@example.com"},
	}}

	deliverer, err := dispatch.NewDeliverer(tracker, notifStorage, users, sender, enqueuer, cfg)
	require.NoError(t, err)

	sweeper, err := dispatch.NewSweeper(storage, enqueuer, cfg)
	require.NoError(t, err)

	return &env{
		dispatcher:    dispatcher,
		deliverer:     deliverer,
		sweeper:       sweeper,
		events:        events,
		resolver:      resolver,
		tracker:       tracker,
		notifications: notifStorage,
		deliveries:    delStorage,
		jobs:          jobs,
		sender:        sender,
		users:         users,
		cfg:           cfg,
	}
}

// drainJobs claims and runs every due job until the queue is empty,
// leaving future-scheduled retries in place.
func (e *env) drainJobs(t *testing.T) int {
	t.Helper()
	ctx := context.Background()
	handler := e.deliverer.Handler()
	workerID := uuid.New()

	var processed int
	for {
		job, err := e.jobs.ClaimJob(ctx, workerID, []string{"notifications"}, time.Minute)
		if errors.Is(err, queue.ErrNoJobToClaim) {
			return processed
		}
		require.NoError(t, err)
		require.Equal(t, handler.Name(), job.Name)

		require.NoError(t, handler.Handle(ctx, job.Payload))
		require.NoError(t, e.jobs.CompleteJob(ctx, job.ID))
		processed++
	}
}

func commentContext() map[string]any {
	return map[string]any{
		"post_title":   "Go Generics",
		"commenter":    "alice",
		"comment_text": "great post",
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates notification and deliveries per user", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1", "user-2"})
		require.NoError(t, err)
		require.Len(t, ids, 2)

		for i, userID := range []string{"user-1", "user-2"} {
			n, err := e.notifications.GetNotification(ctx, ids[i])
			require.NoError(t, err)
			assert.Equal(t, userID, n.UserID)
			assert.Equal(t, "New Comment on Go Generics", n.Title)
			assert.False(t, n.Read)

			deliveries, err := e.tracker.List(ctx, ids[i])
			require.NoError(t, err)
			assert.Len(t, deliveries, 2)
			for _, d := range deliveries {
				assert.Equal(t, notify.DeliveryStatusPending, d.Status)
			}
		}

		// One job per delivery.
		assert.Len(t, e.jobs.Jobs(), 4)
	})

	t.Run("unknown event type writes nothing", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		_, err := e.dispatcher.Dispatch(ctx, "nope", nil, []string{"user-1"})
		require.ErrorIs(t, err, notify.ErrUnknownEventType)
		assert.Empty(t, e.jobs.Jobs())
	})

	t.Run("inactive event type writes nothing", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		require.NoError(t, e.events.Deactivate(ctx, "new_comment"))

		_, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1"})
		require.ErrorIs(t, err, notify.ErrInactiveEventType)
		assert.Empty(t, e.jobs.Jobs())
	})

	t.Run("render failure writes nothing", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		_, err := e.dispatcher.Dispatch(ctx, "new_comment", map[string]any{}, []string{"user-1"})
		require.ErrorIs(t, err, template.ErrMissingContextKey)
		assert.Empty(t, e.jobs.Jobs())
	})

	t.Run("opted-out user skipped silently", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		require.NoError(t, e.resolver.SetEventPreference(ctx, notify.EventPreference{
			UserID: "user-1", EventType: "new_comment", Enabled: false,
		}))

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1", "user-2"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		n, err := e.notifications.GetNotification(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, "user-2", n.UserID)
	})

	t.Run("default-off event reaches only opted-in users", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		require.NoError(t, e.resolver.SetEventPreference(ctx, notify.EventPreference{
			UserID: "user-2", EventType: "weekly_summary", Enabled: true,
		}))

		ids, err := e.dispatcher.Dispatch(ctx, "weekly_summary", map[string]any{
			"view_count":    12,
			"comment_count": 3,
		}, []string{"user-1", "user-2"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.ChannelEmail, deliveries[0].Channel)
	})

	t.Run("channel toggles narrow deliveries", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		require.NoError(t, e.resolver.SetChannelPreference(ctx, "user-1", notify.ChannelPreference{
			InApp: true, Email: false, SMS: true,
		}))

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.ChannelInApp, deliveries[0].Channel)
	})

	t.Run("empty target set is a no-op", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
		assert.Empty(t, e.jobs.Jobs())
	})

	t.Run("duplicate targets collapse to one notification", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1", "user-1", "user-2", "user-1"})
		require.NoError(t, err)
		require.Len(t, ids, 2)

		all, err := e.notifications.ListNotifications(ctx, "user-1", notification.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, all, 1)

		// One job per delivery, two channels per user.
		assert.Len(t, e.jobs.Jobs(), 4)
	})
}

func TestDeliverer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("successful delivery marks sent", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"user-1"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		processed := e.drainJobs(t)
		assert.Equal(t, 2, processed)
		assert.Equal(t, 2, e.sender.sentCount())

		counts, err := e.tracker.Report(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, map[notify.DeliveryStatus]int{notify.DeliveryStatusSent: 2}, counts)
	})

	t.Run("permanent failure finalizes without retry", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.users.users["user-3"] = notify.User{ID: "user-3"} // no phone

		ids, err := e.dispatcher.Dispatch(ctx, "unrecognized_login", map[string]any{
			"location": "Berlin", "device": "Firefox", "time": "now",
		}, []string{"user-3"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		e.drainJobs(t)

		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.DeliveryStatusFailed, deliveries[0].Status)
		assert.Zero(t, deliveries[0].RetryCount)
		assert.NotEmpty(t, deliveries[0].ErrorMessage)

		// No retry job scheduled.
		assert.Zero(t, e.drainJobs(t))
	})

	t.Run("retryable failure schedules backoff retry", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.sender.fail[notify.ChannelSMS] = errors.New("provider timeout")

		ids, err := e.dispatcher.Dispatch(ctx, "unrecognized_login", map[string]any{
			"location": "Berlin", "device": "Firefox", "time": "now",
		}, []string{"user-1"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		before := time.Now()
		e.drainJobs(t)

		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, notify.DeliveryStatusPending, deliveries[0].Status)
		assert.Equal(t, 1, deliveries[0].RetryCount)

		// The retry job exists but is not due yet: first retry waits
		// out the base delay.
		var future int
		for _, job := range e.jobs.Jobs() {
			if job.Status == queue.JobStatusPending {
				future++
				assert.True(t, job.ScheduledAt.After(before.Add(e.cfg.BaseDelay/2)))
			}
		}
		assert.Equal(t, 1, future)
	})

	t.Run("transient failures then success", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.sender.fail[notify.ChannelSMS] = errors.New("provider timeout")

		ids, err := e.dispatcher.Dispatch(ctx, "unrecognized_login", map[string]any{
			"location": "Berlin", "device": "Firefox", "time": "now",
		}, []string{"user-1"})
		require.NoError(t, err)

		handler := e.deliverer.Handler()
		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		payload := []byte(fmt.Sprintf(`{"delivery_id":%q}`, deliveries[0].ID))

		// Two failed attempts, bypassing the scheduled delays.
		require.NoError(t, handler.Handle(ctx, payload))
		require.NoError(t, handler.Handle(ctx, payload))

		// Provider recovers before the third attempt.
		delete(e.sender.fail, notify.ChannelSMS)
		require.NoError(t, handler.Handle(ctx, payload))

		got, err := e.tracker.Get(ctx, deliveries[0].ID)
		require.NoError(t, err)
		assert.Equal(t, notify.DeliveryStatusSent, got.Status)
		assert.Equal(t, 2, got.RetryCount)
		require.NotNil(t, got.DeliveredAt)
		assert.Empty(t, got.ErrorMessage)
	})

	t.Run("exhausted retries finalize failed", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.sender.fail[notify.ChannelSMS] = errors.New("provider timeout")

		ids, err := e.dispatcher.Dispatch(ctx, "unrecognized_login", map[string]any{
			"location": "Berlin", "device": "Firefox", "time": "now",
		}, []string{"user-1"})
		require.NoError(t, err)

		handler := e.deliverer.Handler()
		deliveries, err := e.tracker.List(ctx, ids[0])
		require.NoError(t, err)
		payload := []byte(fmt.Sprintf(`{"delivery_id":%q}`, deliveries[0].ID))

		// Run the attempt loop directly, bypassing the scheduled delays.
		for i := 0; i < e.cfg.MaxAttempts; i++ {
			require.NoError(t, handler.Handle(ctx, payload))
		}

		got, err := e.tracker.Get(ctx, deliveries[0].ID)
		require.NoError(t, err)
		assert.Equal(t, notify.DeliveryStatusFailed, got.Status)
		assert.Equal(t, e.cfg.MaxAttempts, got.RetryCount)

		// Replaying the job after the terminal state is a no-op.
		require.NoError(t, handler.Handle(ctx, payload))
		calls := e.sender.calls
		require.NoError(t, handler.Handle(ctx, payload))
		assert.Equal(t, calls, e.sender.calls)
	})

	t.Run("missing user is a permanent failure", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		ids, err := e.dispatcher.Dispatch(ctx, "new_comment", commentContext(), []string{"ghost"})
		require.NoError(t, err)
		require.Len(t, ids, 1)

		e.drainJobs(t)

		counts, err := e.tracker.Report(ctx, ids[0])
		require.NoError(t, err)
		assert.Equal(t, 2, counts[notify.DeliveryStatusFailed])
	})

	t.Run("job for deleted delivery row is dropped", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		handler := e.deliverer.Handler()

		payload := []byte(fmt.Sprintf(`{"delivery_id":%q}`, uuid.New()))
		require.NoError(t, handler.Handle(ctx, payload))
	})
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	cfg := dispatch.Config{BaseDelay: 30 * time.Second, MaxDelay: time.Hour}

	assert.Equal(t, 30*time.Second, cfg.Backoff(0))
	assert.Equal(t, time.Minute, cfg.Backoff(1))
	assert.Equal(t, 2*time.Minute, cfg.Backoff(2))
	assert.Equal(t, 16*time.Minute, cfg.Backoff(5))
	assert.Equal(t, time.Hour, cfg.Backoff(7))   // 64m capped
	assert.Equal(t, time.Hour, cfg.Backoff(40))  // way past overflow
	assert.Equal(t, 30*time.Second, cfg.Backoff(-1))
}

func TestSweeper(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("re-enqueues stale pending deliveries", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		// A delivery whose job was lost: row exists, queue is empty.
		notifID := uuid.New()
		stale := notify.NewDelivery(notifID, notify.ChannelEmail)
		stale.CreatedAt = time.Now().Add(-3 * time.Hour)
		require.NoError(t, e.deliveries.CreateDelivery(ctx, stale))

		fresh := notify.NewDelivery(notifID, notify.ChannelSMS)
		require.NoError(t, e.deliveries.CreateDelivery(ctx, fresh))

		done := notify.NewDelivery(notifID, notify.ChannelInApp)
		done.CreatedAt = time.Now().Add(-3 * time.Hour)
		require.NoError(t, e.deliveries.CreateDelivery(ctx, done))
		require.NoError(t, e.tracker.MarkSent(ctx, done.ID))

		swept, err := e.sweeper.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)

		jobs := e.jobs.Jobs()
		require.Len(t, jobs, 1)
		assert.Contains(t, string(jobs[0].Payload), stale.ID.String())
	})

	t.Run("recent attempt is not stale", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		d := notify.NewDelivery(uuid.New(), notify.ChannelEmail)
		d.CreatedAt = time.Now().Add(-3 * time.Hour)
		require.NoError(t, e.deliveries.CreateDelivery(ctx, d))
		require.NoError(t, e.tracker.MarkAttempt(ctx, d.ID))

		swept, err := e.sweeper.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, swept)
	})
}
