package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notify"
)

func TestChannelValid(t *testing.T) {
	for _, ch := range notify.Channels {
		assert.True(t, ch.Valid(), "channel %s should be valid", ch)
	}
	assert.False(t, notify.Channel("push").Valid())
	assert.False(t, notify.Channel("").Valid())
}

func TestEventTypeSupports(t *testing.T) {
	et := notify.EventType{
		Code:     "new_comment",
		Channels: []notify.Channel{notify.ChannelInApp, notify.ChannelEmail},
	}

	assert.True(t, et.Supports(notify.ChannelInApp))
	assert.True(t, et.Supports(notify.ChannelEmail))
	assert.False(t, et.Supports(notify.ChannelSMS))
}

func TestDefaultChannelPreference(t *testing.T) {
	pref := notify.DefaultChannelPreference("user-1")

	for _, ch := range notify.Channels {
		assert.True(t, pref.Enabled(ch), "default preference should enable %s", ch)
	}
	assert.False(t, pref.Enabled(notify.Channel("push")))
}

func TestDeliveryTerminal(t *testing.T) {
	tests := []struct {
		status   notify.DeliveryStatus
		terminal bool
	}{
		{notify.DeliveryStatusPending, false},
		{notify.DeliveryStatusSent, true},
		{notify.DeliveryStatusFailed, true},
	}

	for _, tt := range tests {
		d := notify.Delivery{Status: tt.status}
		assert.Equal(t, tt.terminal, d.Terminal(), "status %s", tt.status)
	}
}

func TestNewDelivery(t *testing.T) {
	notifID := uuid.New()
	d := notify.NewDelivery(notifID, notify.ChannelEmail)

	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.Equal(t, notifID, d.NotificationID)
	assert.Equal(t, notify.ChannelEmail, d.Channel)
	assert.Equal(t, notify.DeliveryStatusPending, d.Status)
	assert.Zero(t, d.RetryCount)
	assert.False(t, d.CreatedAt.IsZero())
}

func TestNotificationMarkAsRead(t *testing.T) {
	n := notify.Notification{ID: uuid.New(), UserID: "user-1"}
	require.False(t, n.Read)
	require.Nil(t, n.ReadAt)

	n.MarkAsRead()

	assert.True(t, n.Read)
	require.NotNil(t, n.ReadAt)
}
