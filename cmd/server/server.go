package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JaimeStill/footprint/internal/api"
	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/internal/infrastructure"
	"github.com/JaimeStill/footprint/pkg/handlers"
	"github.com/JaimeStill/footprint/pkg/lifecycle"
	"github.com/JaimeStill/footprint/pkg/middleware"
	"github.com/JaimeStill/footprint/pkg/module"
	"github.com/JaimeStill/footprint/web/scalar"
)

// Server ties the infrastructure to the HTTP listener.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

type health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// NewServer builds every system and mounts the API module, the reference
// UI and the health endpoints. Nothing is started.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, fmt.Errorf("api module: %w", err)
	}

	ui := scalar.NewModule("/scalar", cfg.API.BasePath+"/openapi.json")
	ui.Use(middleware.Logger(infra.Logger))

	router := module.NewRouter()
	router.Mount(apiModule)
	router.Mount(ui)
	healthRoutes(router, infra.Lifecycle, cfg.Version)

	infra.Logger.Info("footprint initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"job_store", cfg.Jobs.Store,
		"events", cfg.Events.Enabled(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// healthRoutes registers /healthz, which answers while the process runs, and
// /readyz, which answers 200 only after every startup hook succeeded.
func healthRoutes(router *module.Router, ready lifecycle.ReadinessChecker, version string) {
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, health{Status: "ok", Version: version})
	})
	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, health{Status: "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, health{Status: "ready", Version: version})
	})
}

// Start registers the infrastructure hooks and binds the listener. The
// health endpoints report ready once startup settles in the background.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup failed, service stays not ready", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()
	return nil
}

// Shutdown waits up to timeout for every shutdown hook, in-flight job runs
// included.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
