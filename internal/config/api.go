package config

import (
	"fmt"

	"github.com/JaimeStill/footprint/pkg/formatting"
	"github.com/JaimeStill/footprint/pkg/middleware"
	"github.com/JaimeStill/footprint/pkg/openapi"
	"github.com/JaimeStill/footprint/pkg/pagination"
)

const defaultMaxUpload = 50 << 20

var (
	corsEnv = &middleware.CORSEnv{
		Enabled:          env("CORS_ENABLED"),
		Origins:          env("CORS_ORIGINS"),
		AllowedMethods:   env("CORS_ALLOWED_METHODS"),
		AllowedHeaders:   env("CORS_ALLOWED_HEADERS"),
		AllowCredentials: env("CORS_ALLOW_CREDENTIALS"),
		MaxAge:           env("CORS_MAX_AGE"),
	}
	authEnv = &middleware.AuthEnv{
		Enabled:  env("AUTH_ENABLED"),
		Issuer:   env("AUTH_ISSUER"),
		Audience: env("AUTH_AUDIENCE"),
	}
	openapiEnv = &openapi.ConfigEnv{
		Title:       env("OPENAPI_TITLE"),
		Description: env("OPENAPI_DESCRIPTION"),
	}
	paginationEnv = &pagination.ConfigEnv{
		DefaultPageSize: env("PAGINATION_DEFAULT_PAGE_SIZE"),
		MaxPageSize:     env("PAGINATION_MAX_PAGE_SIZE"),
	}
)

// APIConfig covers everything mounted under BasePath.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes parses MaxUploadSize. Finalize has already rejected
// values that do not parse, so the fallback only covers unfinalized configs.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	if n, err := formatting.ParseBytes(c.MaxUploadSize); err == nil {
		return n
	}
	return defaultMaxUpload
}

func (c *APIConfig) Finalize() error {
	envString(env("API_BASE_PATH"), &c.BasePath)
	envString(env("API_MAX_UPLOAD_SIZE"), &c.MaxUploadSize)
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}

	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.Pagination.Merge(&overlay.Pagination)
}
