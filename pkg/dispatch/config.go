package dispatch

import "time"

// Config tunes dispatch and delivery behavior. Fields can be populated
// from environment variables via github.com/caarlos0/env.
type Config struct {
	// Queue is the job queue deliveries are enqueued on.
	Queue string `env:"DISPATCH_QUEUE" envDefault:"notifications"`

	// MaxAttempts bounds send attempts per delivery, first attempt
	// included.
	MaxAttempts int `env:"DISPATCH_MAX_ATTEMPTS" envDefault:"3"`

	// BaseDelay is the wait before the first retry; it doubles on each
	// subsequent retry.
	BaseDelay time.Duration `env:"DISPATCH_BASE_DELAY" envDefault:"30s"`

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration `env:"DISPATCH_MAX_DELAY" envDefault:"1h"`

	// SweepInterval is how often the sweeper looks for stale deliveries.
	SweepInterval time.Duration `env:"DISPATCH_SWEEP_INTERVAL" envDefault:"5m"`

	// StaleAfter is how long a pending delivery may sit without
	// activity before the sweeper re-enqueues it. Keep it above
	// MaxDelay to avoid double-enqueuing deliveries that are just
	// waiting out their backoff.
	StaleAfter time.Duration `env:"DISPATCH_STALE_AFTER" envDefault:"2h"`

	// SweepBatchSize bounds deliveries re-enqueued per sweep.
	SweepBatchSize int `env:"DISPATCH_SWEEP_BATCH_SIZE" envDefault:"100"`
}

// normalize fills zero fields with the production defaults so a
// partially built Config never yields zero retries or a zero backoff.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.Queue == "" {
		c.Queue = def.Queue
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = def.SweepInterval
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = def.StaleAfter
	}
	if c.SweepBatchSize <= 0 {
		c.SweepBatchSize = def.SweepBatchSize
	}
	return c
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Queue:          "notifications",
		MaxAttempts:    3,
		BaseDelay:      30 * time.Second,
		MaxDelay:       time.Hour,
		SweepInterval:  5 * time.Minute,
		StaleAfter:     2 * time.Hour,
		SweepBatchSize: 100,
	}
}
