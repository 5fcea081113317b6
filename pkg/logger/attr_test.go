package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifykit/pkg/logger"
)

func TestError(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}

func TestErrors(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Errors(nil, nil))

	attr := logger.Errors(errors.New("one"), nil, errors.New("two"))
	assert.Equal(t, "errors", attr.Key)
	assert.Len(t, attr.Value.Group(), 2)
}

func TestDomainAttrs(t *testing.T) {
	assert.Equal(t, "user_id", logger.UserID("u1").Key)
	assert.Equal(t, slog.Attr{}, logger.UserID(nil))
	assert.Equal(t, "event_type", logger.EventType("new_comment").Key)
	assert.Equal(t, "notification_id", logger.NotificationID("n1").Key)
	assert.Equal(t, "delivery_id", logger.DeliveryID("d1").Key)
	assert.Equal(t, "channel", logger.Channel("email").Key)
	assert.Equal(t, "retry_count", logger.RetryCount(2).Key)
	assert.Equal(t, "component", logger.Component("dispatch").Key)
}
