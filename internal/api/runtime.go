package api

import (
	"fmt"

	"github.com/JaimeStill/clausewise/internal/analyses"
	"github.com/JaimeStill/clausewise/internal/config"
	"github.com/JaimeStill/clausewise/internal/extraction"
	"github.com/JaimeStill/clausewise/internal/infrastructure"
	"github.com/JaimeStill/clausewise/internal/workflow"
	"github.com/JaimeStill/clausewise/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// analysis workflow.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Analysis      analyses.Settings
	MaxUploadSize int64
	Workflow      *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	metrics, err := workflow.NewMetrics(infra.Meter)
	if err != nil {
		return nil, fmt.Errorf("workflow metrics init failed: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			LLM:       infra.LLM,
			Identity:  infra.Identity,
			Meter:     infra.Meter,
		},
		Pagination: cfg.API.Pagination,
		Analysis: analyses.Settings{
			UploadTTL: cfg.Analysis.UploadTTLDuration(),
			CacheTTL:  cfg.Analysis.CacheTTLDuration(),
			Language:  cfg.Analysis.Language,
		},
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		Workflow: &workflow.Runtime{
			Extractor: extraction.New(logger),
			Gateway:   infra.LLM,
			Logger:    logger.With("system", "workflow"),
			Metrics:   metrics,
		},
	}, nil
}
