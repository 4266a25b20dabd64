package service

import (
	"context"

	"go.uber.org/zap"

	"Sator.eden/internal/models"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// Pinger is an integration that can be probed cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports which integrations are configured. Only the archive
// is probed; vendor APIs bill or rate-limit every call.
type HealthService struct {
	configured map[string]bool
	archive    Pinger
	logger     *zap.Logger
}

// NewHealthService creates a HealthService. configured maps integration
// names to whether their settings are present; archive may be nil.
func NewHealthService(configured map[string]bool, archive Pinger, logger *zap.Logger) *HealthService {
	return &HealthService{configured: configured, archive: archive, logger: logger}
}

// Check builds the current report.
func (s *HealthService) Check(ctx context.Context) models.HealthReport {
	report := models.HealthReport{
		Status:       HealthOK,
		Integrations: make(map[string]models.IntegrationStatus, len(s.configured)+1),
	}
	for name, ok := range s.configured {
		report.Integrations[name] = models.IntegrationStatus{Configured: ok}
	}

	if s.archive == nil {
		report.Integrations["influxdb"] = models.IntegrationStatus{Configured: false}
		return report
	}
	status := models.IntegrationStatus{Configured: true}
	available := true
	if err := s.archive.Ping(ctx); err != nil {
		s.logger.Warn("Archive health check failed", zap.Error(err))
		available = false
		status.Error = err.Error()
		report.Status = HealthDegraded
	}
	status.Available = &available
	report.Integrations["influxdb"] = status
	return report
}
