package api

import (
	"fmt"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/jobs"
	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/internal/results"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Prompts   prompts.System
	Results   results.System
	Pipeline  *pipeline.Pipeline
	Jobs      jobs.System
}

// NewDomain creates all domain systems from the API runtime.
// Background job runs are bound to the lifecycle context and drained on shutdown.
func NewDomain(runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Events,
		runtime.Logger,
		runtime.Config.API.Pagination,
	)

	promptsSystem := prompts.New(
		db,
		runtime.Logger,
		runtime.Config.API.Pagination,
	)

	resultsSystem := results.New(
		db,
		runtime.Logger,
		runtime.Config.API.Pagination,
	)

	factors, err := pipeline.LoadFactors(runtime.Config.Pipeline.FactorsPath)
	if err != nil {
		return nil, fmt.Errorf("load factors: %w", err)
	}

	p := pipeline.New(&pipeline.Runtime{
		Inference: pipeline.NewAgentInference(runtime.Config.Agent),
		Renderer: pipeline.NewRenderer(
			runtime.Config.Pipeline.RenderDPI,
			runtime.Config.Pipeline.MaxConcurrency,
		),
		Documents:      docsSystem,
		Results:        resultsSystem,
		Prompts:        promptsSystem,
		Factors:        factors,
		Logger:         runtime.Logger,
		MaxConcurrency: runtime.Config.Pipeline.MaxConcurrency,
	})

	store, err := jobs.NewStore(&runtime.Config.Jobs, db, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("job store: %w", err)
	}

	runner := jobs.NewRunner(
		runtime.Lifecycle.Context(),
		store,
		p,
		runtime.Events,
		runtime.Config.Jobs.MaxParallel,
		runtime.Logger,
	)
	runtime.Lifecycle.OnDrain(runner.Wait)

	jobsSystem := jobs.New(
		store,
		runner,
		docsSystem,
		resultsSystem,
		runtime.Logger,
	)

	return &Domain{
		Documents: docsSystem,
		Prompts:   promptsSystem,
		Results:   resultsSystem,
		Pipeline:  p,
		Jobs:      jobsSystem,
	}, nil
}
