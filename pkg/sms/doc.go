// Package sms sends text messages through Twilio.
//
// The Sender interface decouples callers from the provider. Production
// uses NewTwilioClient; local development uses NewDevSender, which logs
// outgoing messages instead of sending them.
//
//	sender, err := sms.NewTwilioClient(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendSMS(ctx, sms.SendSMSParams{
//	    SendTo: "+15551234567",
//	    Body:   "Unrecognized login detected.",
//	})
//
// Provider rejections carry a ProviderError whose Permanent method
// distinguishes invalid recipients from transient faults.
package sms
