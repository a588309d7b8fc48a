// Package config loads service configuration from TOML files, an optional
// .env file, and FOOTPRINT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/footprint/pkg/database"
	"github.com/JaimeStill/footprint/pkg/events"
	"github.com/JaimeStill/footprint/pkg/logging"
	"github.com/JaimeStill/footprint/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvFootprintEnv             = "FOOTPRINT_ENV"
	EnvFootprintShutdownTimeout = "FOOTPRINT_SHUTDOWN_TIMEOUT"
	EnvFootprintVersion         = "FOOTPRINT_VERSION"
)

func env(name string) string { return "FOOTPRINT_" + name }

var databaseEnv = &database.Env{
	Host:            env("DB_HOST"),
	Port:            env("DB_PORT"),
	Name:            env("DB_NAME"),
	User:            env("DB_USER"),
	Password:        env("DB_PASSWORD"),
	SSLMode:         env("DB_SSL_MODE"),
	MaxOpenConns:    env("DB_MAX_OPEN_CONNS"),
	MaxIdleConns:    env("DB_MAX_IDLE_CONNS"),
	ConnMaxLifetime: env("DB_CONN_MAX_LIFETIME"),
	ConnTimeout:     env("DB_CONN_TIMEOUT"),
}

var storageEnv = &storage.Env{
	Provider:         env("STORAGE_PROVIDER"),
	ContainerName:    env("STORAGE_CONTAINER_NAME"),
	ConnectionString: env("STORAGE_CONNECTION_STRING"),
	ServiceURL:       env("STORAGE_SERVICE_URL"),
	Endpoint:         env("STORAGE_ENDPOINT"),
	AccessKey:        env("STORAGE_ACCESS_KEY"),
	SecretKey:        env("STORAGE_SECRET_KEY"),
	Region:           env("STORAGE_REGION"),
	UseSSL:           env("STORAGE_USE_SSL"),
}

var eventsEnv = &events.Env{
	Brokers:      env("EVENTS_BROKERS"),
	Topic:        env("EVENTS_TOPIC"),
	BatchTimeout: env("EVENTS_BATCH_TIMEOUT"),
}

var loggingEnv = &logging.Env{
	Level:  env("LOG_LEVEL"),
	Format: env("LOG_FORMAT"),
}

// Config is the root configuration for the footprint service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	API             APIConfig            `toml:"api"`
	Pipeline        PipelineConfig       `toml:"pipeline"`
	Jobs            JobsConfig           `toml:"jobs"`
	Events          events.Config        `toml:"events"`
	Logging         logging.Config       `toml:"logging"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env names the deployment environment. It is "local" unless FOOTPRINT_ENV
// says otherwise.
func (c *Config) Env() string {
	name := os.Getenv(EnvFootprintEnv)
	if name == "" {
		return "local"
	}
	return name
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load builds the configuration in layers: .env entries not already in the
// environment, config.toml, config.<env>.toml, FOOTPRINT_* variables, then
// defaults. Missing files are skipped.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	if err := decode(BaseConfigFile, cfg); err != nil {
		return nil, err
	}

	if name := os.Getenv(EnvFootprintEnv); name != "" {
		var overlay Config
		path := fmt.Sprintf(OverlayConfigPattern, name)
		if err := decode(path, &overlay); err != nil {
			return nil, fmt.Errorf("overlay: %w", err)
		}
		cfg.Merge(&overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge copies every non-zero overlay value onto c, section by section.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Agent.Merge(&overlay.Agent)
	c.API.Merge(&overlay.API)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Jobs.Merge(&overlay.Jobs)
	c.Events.Merge(&overlay.Events)
	c.Logging.Merge(&overlay.Logging)
}

func (c *Config) finalize() error {
	envString(EnvFootprintShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvFootprintVersion, &c.Version)
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"agent", func() error { return FinalizeAgent(&c.Agent) }},
		{"api", c.API.Finalize},
		{"pipeline", c.Pipeline.Finalize},
		{"jobs", c.Jobs.Finalize},
		{"events", func() error { return c.Events.Finalize(eventsEnv) }},
		{"logging", func() error { return c.Logging.Finalize(loggingEnv) }},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// decode reads path into dst. A missing file leaves dst untouched.
func decode(path string, dst *Config) error {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
