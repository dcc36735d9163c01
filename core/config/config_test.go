package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tech-sports-pimba/pimba-mvp/core/config"
)

type sampleConfig struct {
	Addr    string        `env:"SAMPLE_ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" envDefault:"5s"`
	Debug   bool          `env:"SAMPLE_DEBUG" envDefault:"false"`
}

type envConfig struct {
	Value string `env:"CONFIG_TEST_VALUE" envDefault:"fallback"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.False(t, cfg.Debug)
	})

	t.Run("environment overrides default", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_VALUE", "from-env")

		var cfg envConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("cached per type", func(t *testing.T) {
		var first sampleConfig
		require.NoError(t, config.Load(&first))

		// A later environment change must not affect the cached type.
		t.Setenv("SAMPLE_ADDR", ":9999")

		var second sampleConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Addr, second.Addr)
	})

	t.Run("nil pointer rejected", func(t *testing.T) {
		assert.Error(t, config.Load[sampleConfig](nil))
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("succeeds with defaults", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg sampleConfig
			config.MustLoad(&cfg)
		})
	})
}
