package monitor

import (
	"context"
	"fmt"
	"time"

	"questctl/internal/config"
)

// OverallHealth classifies the fleet as a whole.
type OverallHealth string

const (
	OverallHealthy  OverallHealth = "healthy"
	OverallDegraded OverallHealth = "degraded"
	OverallCritical OverallHealth = "critical"
)

// classifyOverall folds per-service reachability and the fleet-wide error
// rate into one ordinal status. Losing half or more of the fleet is
// critical; any unhealthy service or an error rate over the threshold is
// degraded; otherwise healthy.
func classifyOverall(healthyCount, total int, errorRate, errorRateThreshold float64) OverallHealth {
	if total == 0 {
		return OverallHealthy
	}
	if float64(healthyCount) < float64(total)/2 {
		return OverallCritical
	}
	if healthyCount < total {
		return OverallDegraded
	}
	if errorRateThreshold > 0 && errorRate > errorRateThreshold {
		return OverallDegraded
	}
	return OverallHealthy
}

// ServiceReport is the per-service slice of a snapshot.
type ServiceReport struct {
	Name                string           `json:"name"`
	Status              ServiceStatus    `json:"status"`
	AvgResponseMs       float64          `json:"avgResponseMs"`
	P95ResponseMs       float64          `json:"p95ResponseMs"`
	Availability        float64          `json:"availability"`
	ErrorRate           float64          `json:"errorRate"`
	TotalRequests       int              `json:"totalRequests"`
	ConsecutiveFailures int              `json:"consecutiveFailures"`
	DeploymentHealth    DeploymentHealth `json:"deploymentHealth"`
	LastCheck           time.Time        `json:"lastCheck"`
}

// Snapshot is an immutable projection of the monitor's state, taken once per
// round and consumed by renderers, the daily report file and the agent.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Overall     OverallHealth   `json:"overall"`
	Services    []ServiceReport `json:"services"`
	Alerts      []Alert         `json:"alerts"`
}

// evaluateThresholds compares one service's rolling metrics against the
// configured limits and raises the matching alerts. Called once per round
// from the polling goroutine, after all checks have joined.
func (m *Monitor) evaluateThresholds(ctx context.Context, name string, metrics *ServiceMetrics) {
	t := m.cfg.Thresholds

	if avg := metrics.AverageResponseMs(); t.ResponseTimeMs > 0 && avg > t.ResponseTimeMs {
		m.alerts.Raise(ctx, SeverityWarning, name,
			fmt.Sprintf("Average response time %.0fms exceeds threshold %.0fms", avg, t.ResponseTimeMs))
	}
	if rate := metrics.ErrorRate(); t.ErrorRate > 0 && rate > t.ErrorRate {
		m.alerts.Raise(ctx, SeverityCritical, name,
			fmt.Sprintf("Error rate %.1f%% exceeds threshold %.1f%%", rate*100, t.ErrorRate*100))
	}
	if avail := metrics.Availability(); t.Availability > 0 && avail < t.Availability {
		m.alerts.Raise(ctx, SeverityCritical, name,
			fmt.Sprintf("Availability %.1f%% below threshold %.1f%%", avail*100, t.Availability*100))
	}
}

// buildSnapshot projects the current metrics into an immutable snapshot.
// Services keep their configuration order.
func (m *Monitor) buildSnapshot(now time.Time) Snapshot {
	services := make([]ServiceReport, 0, len(m.cfg.Services))
	healthy := 0
	totalRequests, totalErrors := 0, 0
	for _, svc := range m.cfg.Services {
		metrics := m.metrics[svc.Name]
		if metrics.Status == StatusHealthy {
			healthy++
		}
		totalRequests += metrics.TotalRequests
		totalErrors += metrics.ErrorCount
		services = append(services, serviceReport(svc, metrics))
	}

	overallErrorRate := 0.0
	if totalRequests > 0 {
		overallErrorRate = float64(totalErrors) / float64(totalRequests)
	}

	return Snapshot{
		GeneratedAt: now,
		Overall: classifyOverall(healthy, len(m.cfg.Services),
			overallErrorRate, m.cfg.Thresholds.ErrorRate),
		Services: services,
		Alerts:   m.alerts.Recent(recentAlertCount),
	}
}

func serviceReport(svc config.MonitorService, m *ServiceMetrics) ServiceReport {
	return ServiceReport{
		Name:                svc.Name,
		Status:              m.Status,
		AvgResponseMs:       m.AverageResponseMs(),
		P95ResponseMs:       m.P95ResponseMs(),
		Availability:        m.Availability(),
		ErrorRate:           m.ErrorRate(),
		TotalRequests:       m.TotalRequests,
		ConsecutiveFailures: m.ConsecutiveFailures,
		DeploymentHealth:    m.DeploymentHealth,
		LastCheck:           m.LastCheck,
	}
}
