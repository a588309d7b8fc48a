package events

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds event publishing settings. Publishing is disabled when
// Brokers is empty.
type Config struct {
	Brokers      []string `toml:"brokers"`
	Topic        string   `toml:"topic"`
	BatchTimeout string   `toml:"batch_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Brokers      string
	Topic        string
	BatchTimeout string
}

// Enabled reports whether any brokers are configured.
func (c *Config) Enabled() bool {
	return len(c.Brokers) > 0
}

// BatchTimeoutDuration returns BatchTimeout as a time.Duration.
func (c *Config) BatchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.BatchTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Brokers != nil {
		c.Brokers = overlay.Brokers
	}
	if overlay.Topic != "" {
		c.Topic = overlay.Topic
	}
	if overlay.BatchTimeout != "" {
		c.BatchTimeout = overlay.BatchTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Topic == "" {
		c.Topic = "footprint.events"
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "50ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Brokers != "" {
		if v := os.Getenv(env.Brokers); v != "" {
			c.Brokers = c.Brokers[:0]
			for b := range strings.SplitSeq(v, ",") {
				if trimmed := strings.TrimSpace(b); trimmed != "" {
					c.Brokers = append(c.Brokers, trimmed)
				}
			}
		}
	}
	if env.Topic != "" {
		if v := os.Getenv(env.Topic); v != "" {
			c.Topic = v
		}
	}
	if env.BatchTimeout != "" {
		if v := os.Getenv(env.BatchTimeout); v != "" {
			c.BatchTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Enabled() && c.Topic == "" {
		return fmt.Errorf("topic required")
	}
	if _, err := time.ParseDuration(c.BatchTimeout); err != nil {
		return fmt.Errorf("invalid batch_timeout: %w", err)
	}
	return nil
}
