// Package email sends transactional email through Postmark.
//
// The Sender interface decouples callers from the provider. Production
// uses NewPostmarkClient; local development uses NewDevSender, which
// writes outgoing mail to disk for inspection.
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "Welcome!",
//	    BodyText: "Thanks for joining.",
//	    Tag:      "welcome",
//	})
//
// Provider rejections carry a ProviderError whose Permanent method
// distinguishes hard bounces from transient faults.
package email
