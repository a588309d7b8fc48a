package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "FOOTPRINT_SERVER_HOST"
	EnvServerPort            = "FOOTPRINT_SERVER_PORT"
	EnvServerReadTimeout     = "FOOTPRINT_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "FOOTPRINT_SERVER_WRITE_TIMEOUT"
	EnvServerShutdownTimeout = "FOOTPRINT_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig is the HTTP listener. WriteTimeout defaults high because
// a synchronous analysis holds its response open for the whole run.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Timeouts holds the parsed ServerConfig durations.
type Timeouts struct {
	Read, Write, Shutdown time.Duration
}

func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts is only meaningful after Finalize.
func (c *ServerConfig) Timeouts() Timeouts {
	parse := func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	return Timeouts{
		Read:     parse(c.ReadTimeout),
		Write:    parse(c.WriteTimeout),
		Shutdown: parse(c.ShutdownTimeout),
	}
}

func (c *ServerConfig) Finalize() error {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "1m"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "15m"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}

	envString(EnvServerHost, &c.Host)
	envInt(EnvServerPort, &c.Port)
	envString(EnvServerReadTimeout, &c.ReadTimeout)
	envString(EnvServerWriteTimeout, &c.WriteTimeout)
	envString(EnvServerShutdownTimeout, &c.ShutdownTimeout)

	errs := []error{}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	for name, v := range map[string]string{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeInt(&c.Port, overlay.Port)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
}
