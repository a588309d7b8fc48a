// Package storage keeps uploaded documents in a blob container, either
// Azure Blob Storage or an S3-compatible MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/footprint/pkg/lifecycle"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("storage key must not be empty")
	ErrInvalidKey = errors.New("storage key contains invalid path segment")
)

// System is the provider-neutral blob API. Every key is checked before
// the provider sees it.
type System interface {
	// Start ensures the container exists once the lifecycle starts.
	Start(lc *lifecycle.Coordinator) error
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns ErrNotFound for a missing blob. The caller closes
	// the reader.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the client for cfg.Provider without touching the network.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "provider", cfg.Provider)

	switch cfg.Provider {
	case ProviderAzure:
		return newAzure(cfg, logger)
	case ProviderMinio:
		return newMinio(cfg, logger)
	}
	return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
}

// Key joins segments with "/" and validates the result.
func Key(segments ...string) (string, error) {
	key := strings.Join(segments, "/")
	if err := validateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	parts := strings.Split(key, "/")
	if slices.Contains(parts, "..") || slices.Contains(parts, "") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyKey), errors.Is(err, ErrInvalidKey):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
