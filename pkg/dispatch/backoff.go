package dispatch

import "time"

// Backoff returns the wait before the next attempt after n prior
// retries: BaseDelay doubled n times, capped at MaxDelay.
func (c Config) Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	// Past 32 doublings any sane base delay exceeds any sane cap.
	if n > 32 {
		return c.MaxDelay
	}

	delay := c.BaseDelay << uint(n)
	if delay <= 0 || delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}
