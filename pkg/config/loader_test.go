package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/config"
)

type streamEnvConfig struct {
	BufferSize   int           `env:"TEST_STREAM_BUFFER_SIZE" envDefault:"32"`
	PingInterval time.Duration `env:"TEST_STREAM_PING_INTERVAL" envDefault:"30s"`
	Channels     []string      `env:"TEST_STREAM_CHANNELS" envSeparator:","`
}

type requiredEnvConfig struct {
	URL string `env:"TEST_NOTIFYHUB_REQUIRED_URL,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults apply when env is empty", func(t *testing.T) {
		var cfg streamEnvConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 32, cfg.BufferSize)
		assert.Equal(t, 30*time.Second, cfg.PingInterval)
	})

	t.Run("cached per type", func(t *testing.T) {
		// The first Load above cached the parsed struct; setting the env
		// afterwards must not change what later calls return.
		t.Setenv("TEST_STREAM_BUFFER_SIZE", "128")

		var cfg streamEnvConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 32, cfg.BufferSize)
	})

	t.Run("environment overrides and separators", func(t *testing.T) {
		t.Setenv("TEST_STREAM_CHANNELS", "user:1,deploys")

		type freshConfig struct {
			Channels []string `env:"TEST_STREAM_CHANNELS" envSeparator:","`
		}
		var cfg freshConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, []string{"user:1", "deploys"}, cfg.Channels)
	})

	t.Run("missing required variable", func(t *testing.T) {
		var cfg requiredEnvConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := config.Load[streamEnvConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredEnvConfig
		config.MustLoad(&cfg)
	})
}
