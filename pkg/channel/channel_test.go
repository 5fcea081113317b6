package channel_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/channel"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/inapp"
	"github.com/dmitrymomot/notifykit/pkg/notify"
	"github.com/dmitrymomot/notifykit/pkg/sms"
)

type fakeEmailSender struct {
	lastParams email.SendEmailParams
	err        error
}

func (f *fakeEmailSender) SendEmail(_ context.Context, params email.SendEmailParams) error {
	f.lastParams = params
	return f.err
}

type fakeSMSSender struct {
	lastParams sms.SendSMSParams
	err        error
}

func (f *fakeSMSSender) SendSMS(_ context.Context, params sms.SendSMSParams) error {
	f.lastParams = params
	return f.err
}

var testUser = notify.User{
	ID:    "user-1",
	Email: "user@example.com",
	Phone: "+15551234567",
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, channel.IsRetryable(nil))
	assert.False(t, channel.IsRetryable(channel.Permanent("no phone", nil)))
	assert.True(t, channel.IsRetryable(channel.Transient("timeout", nil)))
	assert.True(t, channel.IsRetryable(context.DeadlineExceeded))
	assert.True(t, channel.IsRetryable(errors.New("mystery failure")))

	wrapped := errors.Join(errors.New("outer"), channel.Permanent("inner", nil))
	assert.False(t, channel.IsRetryable(wrapped))
}

func TestEmailBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := notify.NewNotification("user-1", "welcome", "Welcome!", "Thanks for joining.", nil)

	t.Run("sends title as subject", func(t *testing.T) {
		t.Parallel()
		sender := &fakeEmailSender{}
		backend := channel.NewEmailBackend(sender)

		require.NoError(t, backend.Send(ctx, testUser, n))
		assert.Equal(t, "user@example.com", sender.lastParams.SendTo)
		assert.Equal(t, "Welcome!", sender.lastParams.Subject)
		assert.Equal(t, "Thanks for joining.", sender.lastParams.BodyText)
		assert.Equal(t, "welcome", sender.lastParams.Tag)
	})

	t.Run("missing email is permanent", func(t *testing.T) {
		t.Parallel()
		backend := channel.NewEmailBackend(&fakeEmailSender{})

		err := backend.Send(ctx, notify.User{ID: "user-2"}, n)
		require.Error(t, err)
		assert.False(t, channel.IsRetryable(err))
	})

	t.Run("provider hard bounce is permanent", func(t *testing.T) {
		t.Parallel()
		sender := &fakeEmailSender{err: errors.Join(
			email.ErrFailedToSendEmail,
			&email.ProviderError{Code: 406, Message: "inactive recipient"},
		)}
		backend := channel.NewEmailBackend(sender)

		err := backend.Send(ctx, testUser, n)
		require.Error(t, err)
		assert.False(t, channel.IsRetryable(err))
	})

	t.Run("provider fault is transient", func(t *testing.T) {
		t.Parallel()
		sender := &fakeEmailSender{err: errors.New("connection reset")}
		backend := channel.NewEmailBackend(sender)

		err := backend.Send(ctx, testUser, n)
		require.Error(t, err)
		assert.True(t, channel.IsRetryable(err))
	})
}

func TestSMSBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("joins title and message", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSMSSender{}
		backend := channel.NewSMSBackend(sender)
		n := notify.NewNotification("user-1", "unrecognized_login", "Login Alert", "New login from Berlin.", nil)

		require.NoError(t, backend.Send(ctx, testUser, n))
		assert.Equal(t, "+15551234567", sender.lastParams.SendTo)
		assert.Equal(t, "Login Alert\nNew login from Berlin.", sender.lastParams.Body)
	})

	t.Run("truncates to one segment", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSMSSender{}
		backend := channel.NewSMSBackend(sender)

		long := make([]byte, 300)
		for i := range long {
			long[i] = 'a'
		}
		n := notify.NewNotification("user-1", "x", "Title", string(long), nil)

		require.NoError(t, backend.Send(ctx, testUser, n))
		assert.Len(t, []rune(sender.lastParams.Body), 160)
	})

	t.Run("missing phone is permanent", func(t *testing.T) {
		t.Parallel()
		backend := channel.NewSMSBackend(&fakeSMSSender{})
		n := notify.NewNotification("user-1", "x", "Title", "Message", nil)

		err := backend.Send(ctx, notify.User{ID: "user-2", Email: "a@b.co"}, n)
		require.Error(t, err)
		assert.False(t, channel.IsRetryable(err))
	})

	t.Run("provider rejection is permanent", func(t *testing.T) {
		t.Parallel()
		sender := &fakeSMSSender{err: errors.Join(
			sms.ErrFailedToSendSMS,
			&sms.ProviderError{Code: 21211, Message: "invalid to number"},
		)}
		backend := channel.NewSMSBackend(sender)
		n := notify.NewNotification("user-1", "x", "Title", "Message", nil)

		err := backend.Send(ctx, testUser, n)
		require.Error(t, err)
		assert.False(t, channel.IsRetryable(err))
	})
}

func TestInAppBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("publishes to hub", func(t *testing.T) {
		t.Parallel()
		hub := inapp.NewMemoryHub()
		t.Cleanup(func() { _ = hub.Close() })
		backend := channel.NewInAppBackend(hub)

		sub, err := hub.Subscribe(ctx, "user-1")
		require.NoError(t, err)

		n := notify.NewNotification("user-1", "new_comment", "Title", "Message", nil)
		require.NoError(t, backend.Send(ctx, testUser, n))

		got := <-sub.Receive()
		assert.Equal(t, n.ID, got.ID)
	})

	t.Run("closed hub is transient", func(t *testing.T) {
		t.Parallel()
		hub := inapp.NewMemoryHub()
		require.NoError(t, hub.Close())
		backend := channel.NewInAppBackend(hub)

		n := notify.NewNotification("user-1", "new_comment", "Title", "Message", nil)
		err := backend.Send(ctx, testUser, n)
		require.Error(t, err)
		assert.True(t, channel.IsRetryable(err))
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("routes by channel", func(t *testing.T) {
		t.Parallel()
		emailSender := &fakeEmailSender{}
		smsSender := &fakeSMSSender{}
		registry, err := channel.NewRegistry([]channel.Backend{
			channel.NewEmailBackend(emailSender),
			channel.NewSMSBackend(smsSender),
		})
		require.NoError(t, err)

		n := notify.NewNotification("user-1", "x", "Title", "Message", nil)
		require.NoError(t, registry.Send(ctx, notify.ChannelEmail, testUser, n))
		assert.Equal(t, "user@example.com", emailSender.lastParams.SendTo)
		assert.Empty(t, smsSender.lastParams.SendTo)
	})

	t.Run("unregistered channel", func(t *testing.T) {
		t.Parallel()
		registry, err := channel.NewRegistry(nil)
		require.NoError(t, err)

		err = registry.Send(ctx, notify.ChannelEmail, testUser, notify.Notification{})
		require.ErrorIs(t, err, channel.ErrBackendNotFound)
		// Nothing to retry against, so the worker must not burn its
		// retry budget on this.
		assert.False(t, channel.IsRetryable(err))
	})

	t.Run("duplicate backend rejected", func(t *testing.T) {
		t.Parallel()
		_, err := channel.NewRegistry([]channel.Backend{
			channel.NewEmailBackend(&fakeEmailSender{}),
			channel.NewEmailBackend(&fakeEmailSender{}),
		})
		require.ErrorIs(t, err, channel.ErrDuplicateBackend)
	})

	t.Run("channels lists registered backends", func(t *testing.T) {
		t.Parallel()
		registry, err := channel.NewRegistry([]channel.Backend{
			channel.NewSMSBackend(&fakeSMSSender{}),
			channel.NewEmailBackend(&fakeEmailSender{}),
		})
		require.NoError(t, err)

		assert.Equal(t, []notify.Channel{notify.ChannelEmail, notify.ChannelSMS}, registry.Channels())
	})
}
