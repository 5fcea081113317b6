// Package channel routes notifications to their transport backends.
//
// A Backend sends one notification over one channel: in-app push, email,
// or SMS. The Registry wires backends together and bounds every send
// with a timeout.
//
//	registry, err := channel.NewRegistry([]channel.Backend{
//	    channel.NewInAppBackend(hub),
//	    channel.NewEmailBackend(emailSender),
//	    channel.NewSMSBackend(smsSender),
//	})
//
// Send failures are classified with Permanent and Transient; the
// delivery worker uses IsRetryable to decide between finalizing the
// delivery and scheduling another attempt. Errors nobody classified are
// treated as retryable.
package channel
