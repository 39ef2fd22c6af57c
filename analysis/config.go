package analysis

import (
	"time"

	"github.com/poiesic/trendscout/rising"
)

// Config holds configuration for analysis runs.
type Config struct {
	// TopK is the ranking length used when a Request leaves it unset
	TopK int

	// MaxAttempts bounds the fetches of a transiently failing chunk,
	// the first one included. 1 disables retries.
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// ProgressInterval is how often to report progress (number of chunks)
	ProgressInterval int

	// SaveTimeout bounds one background snapshot write
	SaveTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TopK:             rising.DefaultTopK,
		MaxAttempts:      1,
		RetryDelay:       1 * time.Second,
		ProgressInterval: 1,
		SaveTimeout:      10 * time.Second,
	}
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.TopK <= 0 {
		c.TopK = d.TopK
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.ProgressInterval <= 0 {
		c.ProgressInterval = d.ProgressInterval
	}
	if c.SaveTimeout <= 0 {
		c.SaveTimeout = d.SaveTimeout
	}
}
