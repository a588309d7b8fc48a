// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/internal/infrastructure"
	"github.com/JaimeStill/footprint/pkg/middleware"
	"github.com/JaimeStill/footprint/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// When auth is enabled the issuer is discovered here, so startup fails fast
// on a bad issuer.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	spec, err := NewSpec(cfg).JSON()
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		verifier, err := middleware.NewVerifier(infra.Lifecycle.Context(), &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
		m.Use(middleware.Auth(verifier, runtime.Logger))
	}

	return m, nil
}
