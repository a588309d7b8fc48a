package config

import (
	"errors"
	"fmt"
	"slices"
)

// Job store backends.
const (
	JobStoreMemory   = "memory"
	JobStorePostgres = "postgres"
)

var jobStores = []string{JobStoreMemory, JobStorePostgres}

// PipelineConfig tunes page rendering and the per-page fan-out. A
// MaxConcurrency of zero runs one worker per CPU. FactorsPath, when set,
// points at a JSON emission factor table replacing the built-in one.
type PipelineConfig struct {
	RenderDPI      int    `toml:"render_dpi"`
	MaxConcurrency int    `toml:"max_concurrency"`
	FactorsPath    string `toml:"factors_path"`
}

func (c *PipelineConfig) Finalize() error {
	envInt(env("PIPELINE_RENDER_DPI"), &c.RenderDPI)
	envInt(env("PIPELINE_MAX_CONCURRENCY"), &c.MaxConcurrency)
	envString(env("PIPELINE_FACTORS_PATH"), &c.FactorsPath)
	if c.RenderDPI == 0 {
		c.RenderDPI = 200
	}

	var errs []error
	if c.RenderDPI < 72 || c.RenderDPI > 600 {
		errs = append(errs, fmt.Errorf("render_dpi %d outside 72..600", c.RenderDPI))
	}
	if c.MaxConcurrency < 0 {
		errs = append(errs, errors.New("max_concurrency is negative"))
	}
	return errors.Join(errs...)
}

func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	mergeInt(&c.RenderDPI, overlay.RenderDPI)
	mergeInt(&c.MaxConcurrency, overlay.MaxConcurrency)
	mergeString(&c.FactorsPath, overlay.FactorsPath)
}

// JobsConfig picks where job records live and how many documents one job
// analyzes at a time.
type JobsConfig struct {
	Store       string `toml:"store"`
	MaxParallel int    `toml:"max_parallel"`
}

func (c *JobsConfig) Finalize() error {
	envString(env("JOBS_STORE"), &c.Store)
	envInt(env("JOBS_MAX_PARALLEL"), &c.MaxParallel)
	if c.Store == "" {
		c.Store = JobStorePostgres
	}
	if c.MaxParallel == 0 {
		c.MaxParallel = 2
	}

	var errs []error
	if !slices.Contains(jobStores, c.Store) {
		errs = append(errs, fmt.Errorf("unknown store: %s", c.Store))
	}
	if c.MaxParallel < 1 {
		errs = append(errs, fmt.Errorf("max_parallel %d must be positive", c.MaxParallel))
	}
	return errors.Join(errs...)
}

func (c *JobsConfig) Merge(overlay *JobsConfig) {
	mergeString(&c.Store, overlay.Store)
	mergeInt(&c.MaxParallel, overlay.MaxParallel)
}
