package storage

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	ProviderAzure = "azure"
	ProviderMinio = "minio"
)

// Config selects and addresses the blob provider. Azure takes either a
// connection string or a service URL signed by the ambient credential
// chain. MinIO takes an endpoint and a static key pair.
type Config struct {
	Provider         string `toml:"provider"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	Endpoint         string `toml:"endpoint"`
	AccessKey        string `toml:"access_key"`
	SecretKey        string `toml:"secret_key"`
	Region           string `toml:"region"`
	UseSSL           bool   `toml:"use_ssl"`
}

type Env struct {
	Provider         string
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Region           string
	UseSSL           string
}

func (c *Config) Finalize(env *Env) error {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}

	if env != nil {
		for name, dst := range map[string]*string{
			env.Provider:         &c.Provider,
			env.ContainerName:    &c.ContainerName,
			env.ConnectionString: &c.ConnectionString,
			env.ServiceURL:       &c.ServiceURL,
			env.Endpoint:         &c.Endpoint,
			env.AccessKey:        &c.AccessKey,
			env.SecretKey:        &c.SecretKey,
			env.Region:           &c.Region,
		} {
			if v := getenv(name); v != "" {
				*dst = v
			}
		}
		if b, err := strconv.ParseBool(getenv(env.UseSSL)); err == nil {
			c.UseSSL = b
		}
	}

	return c.validate()
}

// Merge copies non-empty strings from overlay. UseSSL always follows the
// overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range map[*string]string{
		&c.Provider:         overlay.Provider,
		&c.ContainerName:    overlay.ContainerName,
		&c.ConnectionString: overlay.ConnectionString,
		&c.ServiceURL:       overlay.ServiceURL,
		&c.Endpoint:         overlay.Endpoint,
		&c.AccessKey:        overlay.AccessKey,
		&c.SecretKey:        overlay.SecretKey,
		&c.Region:           overlay.Region,
	} {
		if v != "" {
			*dst = v
		}
	}
	c.UseSSL = overlay.UseSSL
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return errors.New("container_name required")
	}

	switch c.Provider {
	case ProviderAzure:
		if c.ConnectionString == "" && c.ServiceURL == "" {
			return errors.New("connection_string or service_url required")
		}
	case ProviderMinio:
		if c.Endpoint == "" {
			return errors.New("endpoint required")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return errors.New("access_key and secret_key required")
		}
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	return nil
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
