package redis

import "errors"

var (
	// ErrEmptyConnectionURL is returned by Connect when the config has no
	// connection URL.
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")

	// ErrInvalidConnectionURL is returned when the connection URL cannot
	// be parsed.
	ErrInvalidConnectionURL = errors.New("invalid redis connection URL")

	// ErrNotReady is returned when the server does not answer a ping
	// within the configured attempts and timeout.
	ErrNotReady = errors.New("redis not ready")

	// ErrHealthcheckFailed is returned by the Healthcheck probe.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
