package api

import (
	"log/slog"

	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/internal/infrastructure"
)

// Runtime is the shared infrastructure as the API module sees it: the
// same systems, a module-tagged logger and the full config.
type Runtime struct {
	*infrastructure.Infrastructure
	Logger *slog.Logger
	Config *config.Config
}

func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: infra,
		Logger:         infra.Logger.With("module", "api"),
		Config:         cfg,
	}
}
