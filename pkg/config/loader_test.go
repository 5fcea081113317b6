package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type testConfig struct {
	Name     string        `env:"CONFIG_TEST_NAME" envDefault:"deliveries"`
	Interval time.Duration `env:"CONFIG_TEST_INTERVAL" envDefault:"5s"`
	Required string        `env:"CONFIG_TEST_REQUIRED,required"`
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_TEST_REQUIRED", "set")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "deliveries", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, "set", cfg.Required)
}

func TestLoad_Override(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "retries")
	t.Setenv("CONFIG_TEST_INTERVAL", "250ms")
	t.Setenv("CONFIG_TEST_REQUIRED", "set")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "retries", cfg.Name)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg testConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[testConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoad[testConfig](nil)
	})
}
