// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package provider

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/poiesic/trendscout/core"
	"github.com/ulule/limiter/v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvClientID     = "NAVER_CLIENT_ID"
	EnvClientSecret = "NAVER_CLIENT_SECRET"
	EnvBaseURL      = "NAVER_API_BASE_URL"
	EnvTimeout      = "NAVER_TIMEOUT"
	EnvRateLimit    = "NAVER_RATE_LIMIT"
)

// DefaultBaseURL is the public open API endpoint.
const DefaultBaseURL = "https://openapi.naver.com"

// Config holds configuration for the search and trend providers.
type Config struct {
	// BaseURL is the API root without a trailing slash.
	// Example: "https://openapi.naver.com"
	BaseURL string

	// ClientID and ClientSecret are sent as request headers.
	ClientID     string
	ClientSecret string

	// Timeout bounds a single external call.
	// Default: 10s
	Timeout time.Duration

	// RateLimit paces calls locally, in limiter format ("10-S", "1000-H").
	// Empty disables local pacing; the daily quota is always tracked by the provider.
	RateLimit string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithCredentials sets the client id and secret.
func WithCredentials(clientID, clientSecret string) ConfigOption {
	return func(c *Config) {
		c.ClientID = clientID
		c.ClientSecret = clientSecret
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRateLimit sets the local pacing rate.
func WithRateLimit(rate string) ConfigOption {
	return func(c *Config) {
		c.RateLimit = rate
	}
}

// DefaultConfig returns a Config pointing at the public API with no credentials.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithCredentials(id, secret),
//	    WithRateLimit("10-S"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ConfigFromEnv builds a Config from the NAVER_* environment variables and then
// applies opts, so explicit options win over the environment.
func ConfigFromEnv(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	cfg.ClientID = getEnv(EnvClientID, "")
	cfg.ClientSecret = getEnv(EnvClientSecret, "")
	cfg.BaseURL = getEnv(EnvBaseURL, cfg.BaseURL)
	cfg.Timeout = getEnvDuration(EnvTimeout, cfg.Timeout)
	cfg.RateLimit = getEnv(EnvRateLimit, cfg.RateLimit)
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Credentials returns the configured credential pair.
func (c *Config) Credentials() core.Credentials {
	return core.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret}
}

// Normalize trims whitespace and the trailing slash of BaseURL.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.ClientSecret = strings.TrimSpace(c.ClientSecret)
	c.RateLimit = strings.TrimSpace(c.RateLimit)
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("provider config: BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("provider config: invalid BaseURL %q", c.BaseURL)
	}
	if err := core.ValidateCredentials(c.Credentials()); err != nil {
		return fmt.Errorf("provider config: %w", err)
	}
	if c.Timeout <= 0 {
		return errors.New("provider config: Timeout must be positive")
	}
	if c.RateLimit != "" {
		if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
			return fmt.Errorf("provider config: invalid RateLimit %q: %w", c.RateLimit, err)
		}
	}
	return nil
}
