package handlers

import (
	"go.uber.org/zap"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/metrics"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/domain/repositories"
	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/usecases/cleanup"
)

type Handlers struct {
	Health  *HealthHandler
	Version *VersionHandler
	Metrics *MetricsHandler
	Cleanup *CleanupHandler
	Results *ResultsHandler
	logger  *zap.Logger
}

func NewHandlers(
	cleanupUseCase cleanup.CleanupUseCase,
	results repositories.CleanupResultRepository,
	metricsCollector metrics.MetricsCollector,
	logger *zap.Logger,
	version, buildTime string,
) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(logger),
		Version: NewVersionHandler(version, buildTime),
		Metrics: NewMetricsHandler(metricsCollector, logger),
		Cleanup: NewCleanupHandler(cleanupUseCase, logger),
		Results: NewResultsHandler(results, logger),
		logger:  logger,
	}
}
