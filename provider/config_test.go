package provider

import (
	"testing"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://openapi.naver.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.RateLimit)
	assert.Empty(t, cfg.ClientID)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	})

	t.Run("with credentials", func(t *testing.T) {
		cfg := NewConfig(WithCredentials("id", "secret"))

		assert.Equal(t, core.Credentials{ClientID: "id", ClientSecret: "secret"}, cfg.Credentials())
	})

	t.Run("with all options", func(t *testing.T) {
		cfg := NewConfig(
			WithBaseURL("http://localhost:8080"),
			WithTimeout(3*time.Second),
			WithRateLimit("10-S"),
		)

		assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.Equal(t, "10-S", cfg.RateLimit)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")
	t.Setenv(EnvBaseURL, "http://proxy.local")
	t.Setenv(EnvTimeout, "5s")
	t.Setenv(EnvRateLimit, "9-S")

	cfg := ConfigFromEnv()
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "http://proxy.local", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "9-S", cfg.RateLimit)

	cfg = ConfigFromEnv(WithCredentials("flag-id", "flag-secret"))
	assert.Equal(t, "flag-id", cfg.ClientID, "explicit options override the environment")
}

func TestConfigFromEnv_BadTimeoutFallsBack(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	cfg := ConfigFromEnv()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := NewConfig(
		WithBaseURL(" https://openapi.naver.com/ "),
		WithCredentials(" id ", " secret "),
	)
	cfg.Normalize()

	assert.Equal(t, "https://openapi.naver.com", cfg.BaseURL)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return NewConfig(WithCredentials("id", "secret"))
	}

	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("valid with rate limit", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit = "10-S"
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := NewConfig()
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrValidation)
	})

	t.Run("empty base url", func(t *testing.T) {
		cfg := valid()
		cfg.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("relative base url", func(t *testing.T) {
		cfg := valid()
		cfg.BaseURL = "openapi.naver.com"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := valid()
		cfg.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed rate limit", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit = "ten per second"
		assert.Error(t, cfg.Validate())
	})
}
