package services

import (
	"context"
	"time"
)

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthService reports liveness. The pipeline has no external dependencies
// to probe, so this is a static report with a fresh timestamp.
type HealthService struct {
	version string
}

// NewHealthService creates a health service.
func NewHealthService(version string) *HealthService {
	return &HealthService{version: version}
}

// Check returns the current health status.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Version:   s.version,
		Timestamp: time.Now().UTC(),
	}
}
