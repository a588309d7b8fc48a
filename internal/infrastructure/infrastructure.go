// Package infrastructure builds the shared systems every domain depends
// on: lifecycle, logging, the database pool, blob storage and the event
// publisher.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/pkg/database"
	"github.com/JaimeStill/footprint/pkg/events"
	"github.com/JaimeStill/footprint/pkg/lifecycle"
	"github.com/JaimeStill/footprint/pkg/logging"
	"github.com/JaimeStill/footprint/pkg/storage"
)

type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Events    events.Publisher
}

// New constructs every system without contacting any of them.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging, os.Stderr)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	blobs, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		db.Connection().Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   blobs,
		Events:    events.New(&cfg.Events, logger),
	}, nil
}

// Start registers each system's hooks in dependency order.
func (i *Infrastructure) Start() error {
	systems := []struct {
		name string
		sys  interface {
			Start(*lifecycle.Coordinator) error
		}
	}{
		{"database", i.Database},
		{"storage", i.Storage},
		{"events", i.Events},
	}

	for _, s := range systems {
		if err := s.sys.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("start %s: %w", s.name, err)
		}
	}
	return nil
}
