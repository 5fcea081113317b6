package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// requestTimeout bounds each Twilio API call. The REST client has no
// context plumbing, so deadlines are enforced with the HTTP-level
// timeout plus a context check before the call.
const requestTimeout = 30 * time.Second

type twilioClient struct {
	client *twilio.RestClient
	config Config
}

// NewTwilioClient creates a Twilio-backed SMS sender.
// Both credentials are required for runtime operation - this enforces
// explicit configuration rather than silent failures in production.
func NewTwilioClient(cfg Config) (Sender, error) {
	if cfg.TwilioAccountSID == "" {
		return nil, fmt.Errorf("%w: TwilioAccountSID is required", ErrInvalidConfig)
	}
	if cfg.TwilioAuthToken == "" {
		return nil, fmt.Errorf("%w: TwilioAuthToken is required", ErrInvalidConfig)
	}
	if cfg.SenderPhone == "" {
		return nil, fmt.Errorf("%w: SenderPhone is required", ErrInvalidConfig)
	}
	if !phoneRegex.MatchString(cfg.SenderPhone) {
		return nil, fmt.Errorf("%w: SenderPhone must be an E.164 phone number", ErrInvalidConfig)
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	rest.Client.SetTimeout(requestTimeout)

	return &twilioClient{
		client: rest,
		config: cfg,
	}, nil
}

// MustNewTwilioClient creates a Twilio client that panics on invalid
// config, for failing fast during initialization.
func MustNewTwilioClient(cfg Config) Sender {
	client, err := NewTwilioClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendSMS implements Sender using Twilio's Messages API. Provider
// rejections surface as ProviderError so callers can tell invalid
// recipients from transient faults.
func (c *twilioClient) SendSMS(ctx context.Context, params SendSMSParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrFailedToSendSMS, err)
	}

	msgParams := &openapi.CreateMessageParams{}
	msgParams.SetTo(params.SendTo)
	msgParams.SetFrom(c.config.SenderPhone)
	msgParams.SetBody(params.Body)

	if _, err := c.client.Api.CreateMessage(msgParams); err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			return errors.Join(
				ErrFailedToSendSMS,
				&ProviderError{Code: restErr.Code, Message: restErr.Message},
			)
		}
		return errors.Join(ErrFailedToSendSMS, err)
	}
	return nil
}
