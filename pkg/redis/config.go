package redis

import "time"

// Config describes the Redis connection backing the in-app fan-out hub.
// ConnectionURL follows the "redis://:password@host:6379/0" form. Connect
// keeps dialing until ConnectTimeout elapses or RetryAttempts run out,
// waiting RetryInterval between attempts.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}
