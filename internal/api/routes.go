package api

import (
	"net/http"

	"github.com/JaimeStill/footprint/internal/config"
	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/pkg/openapi"
	"github.com/JaimeStill/footprint/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
	spec []byte,
) {
	maxUpload := cfg.API.MaxUploadSizeBytes()

	routes.Register(
		mux,
		domain.Documents.Handler(maxUpload).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Results.Handler().Routes(),
		pipeline.NewHandler(domain.Pipeline, domain.Documents, runtime.Logger).Routes(),
		domain.Jobs.Handler(maxUpload).Routes(),
	)

	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
