package sms_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/sms"
)

func TestSendSMSParamsValidate(t *testing.T) {
	t.Parallel()

	valid := sms.SendSMSParams{
		SendTo: "+15551234567",
		Body:   "hello",
	}

	t.Run("valid params", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid.Validate())
	})

	t.Run("missing recipient", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.SendTo = ""
		require.ErrorIs(t, p.Validate(), sms.ErrInvalidParams)
	})

	t.Run("non-E164 recipient", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.SendTo = "555-123-4567"
		require.ErrorIs(t, p.Validate(), sms.ErrInvalidParams)
	})

	t.Run("missing body", func(t *testing.T) {
		t.Parallel()
		p := valid
		p.Body = ""
		require.ErrorIs(t, p.Validate(), sms.ErrInvalidParams)
	})
}

func TestNewTwilioClient(t *testing.T) {
	t.Parallel()

	validCfg := sms.Config{
		TwilioAccountSID: "AC00000000000000000000000000000000",
		TwilioAuthToken:  "token",
		SenderPhone:      "+15550000000",
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		sender, err := sms.NewTwilioClient(validCfg)
		require.NoError(t, err)
		assert.NotNil(t, sender)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg
		cfg.TwilioAuthToken = ""
		_, err := sms.NewTwilioClient(cfg)
		require.ErrorIs(t, err, sms.ErrInvalidConfig)
	})

	t.Run("invalid sender phone", func(t *testing.T) {
		t.Parallel()
		cfg := validCfg
		cfg.SenderPhone = "12345"
		_, err := sms.NewTwilioClient(cfg)
		require.ErrorIs(t, err, sms.ErrInvalidConfig)
	})
}

func TestProviderErrorPermanent(t *testing.T) {
	t.Parallel()

	assert.True(t, (&sms.ProviderError{Code: 21211}).Permanent())
	assert.True(t, (&sms.ProviderError{Code: 21610}).Permanent())
	assert.False(t, (&sms.ProviderError{Code: 20429}).Permanent())
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	sender := sms.NewDevSender(nil)

	require.NoError(t, sender.SendSMS(context.Background(), sms.SendSMSParams{
		SendTo: "+15551234567",
		Body:   "hello",
	}))
	require.ErrorIs(t, sender.SendSMS(context.Background(), sms.SendSMSParams{}), sms.ErrInvalidParams)
}

func TestTwilioClientCanceledContext(t *testing.T) {
	t.Parallel()

	sender, err := sms.NewTwilioClient(sms.Config{
		TwilioAccountSID: "AC00000000000000000000000000000000",
		TwilioAuthToken:  "token",
		SenderPhone:      "+15550000000",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The expired deadline is honored before any provider call.
	err = sender.SendSMS(ctx, sms.SendSMSParams{
		SendTo: "+15551234567",
		Body:   "hello",
	})
	require.ErrorIs(t, err, sms.ErrFailedToSendSMS)
	require.ErrorIs(t, err, context.Canceled)
}
