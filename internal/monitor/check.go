package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"questctl/internal/config"
	"questctl/pkg/logging"
)

const (
	// checkTimeout boxes the basic reachability probe per service per round.
	checkTimeout = 10 * time.Second
	// deepCheckTimeout boxes the follow-up application health probe.
	deepCheckTimeout = 5 * time.Second

	// consecutiveFailureAlertAt raises a critical alert the moment a service
	// reaches this many failed checks in a row.
	consecutiveFailureAlertAt = 3

	// Application-level performance limits reported by the deep health probe.
	deepAvgResponseWarnMs = 2000.0
	deepHeapWarnMB        = 100.0
)

// checkService runs one polling round for a single service: a reachability
// probe, and for API services a follow-up probe of the application's own
// health endpoint. Each service owns its metrics, so no lock is needed here.
func (m *Monitor) checkService(ctx context.Context, svc config.MonitorService, metrics *ServiceMetrics) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := m.probe(ctx, svc.URL)
	latency := time.Since(start)
	metrics.LastCheck = time.Now()

	if err != nil {
		metrics.RecordFailure()
		logging.Debug("Monitor", "Check failed for %s: %v", svc.Name, err)
		if metrics.ConsecutiveFailures == consecutiveFailureAlertAt {
			m.alerts.Raise(ctx, SeverityCritical, svc.Name,
				fmt.Sprintf("Service unreachable for %d consecutive checks", consecutiveFailureAlertAt))
		}
		return
	}

	metrics.RecordSuccess(latency)

	if svc.Type == config.ServiceTypeAPI {
		m.deepHealthCheck(ctx, svc, metrics)
	}
}

// healthPayload is the shape of the API's own /health response.
type healthPayload struct {
	Status      string `json:"status"`
	Performance struct {
		AvgResponseTimeMs float64 `json:"avg_response_time_ms"`
		MemoryUsage       struct {
			HeapUsedMB float64 `json:"heap_used_mb"`
		} `json:"memory_usage"`
	} `json:"performance"`
}

// deepHealthCheck asks the API what it thinks of itself. A failing probe
// marks the deployment unhealthy but never touches the outer reachability
// status: the service answered, its application layer did not.
func (m *Monitor) deepHealthCheck(ctx context.Context, svc config.MonitorService, metrics *ServiceMetrics) {
	ctx, cancel := context.WithTimeout(ctx, deepCheckTimeout)
	defer cancel()

	path := svc.HealthCheck
	if path == "" {
		path = "/health"
	}
	url := strings.TrimRight(svc.URL, "/") + path

	body, err := m.fetch(ctx, url)
	if err != nil {
		metrics.DeploymentHealth = DeploymentUnhealthy
		logging.Debug("Monitor", "Deep health check failed for %s: %v", svc.Name, err)
		return
	}

	var payload healthPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.DeploymentHealth = DeploymentUnhealthy
		logging.Debug("Monitor", "Deep health check for %s returned malformed JSON: %v", svc.Name, err)
		return
	}

	if payload.Status != "healthy" {
		metrics.DeploymentHealth = DeploymentDegraded
		m.alerts.Raise(ctx, SeverityWarning, svc.Name,
			fmt.Sprintf("Service reports status %q", payload.Status))
	} else {
		metrics.DeploymentHealth = DeploymentHealthy
	}

	if avg := payload.Performance.AvgResponseTimeMs; avg > deepAvgResponseWarnMs {
		m.alerts.Raise(ctx, SeverityWarning, svc.Name,
			fmt.Sprintf("Reported average response time %.0fms exceeds %.0fms", avg, deepAvgResponseWarnMs))
	}
	if heap := payload.Performance.MemoryUsage.HeapUsedMB; heap > deepHeapWarnMB {
		m.alerts.Raise(ctx, SeverityWarning, svc.Name,
			fmt.Sprintf("Reported heap usage %.0fMB exceeds %.0fMB", heap, deepHeapWarnMB))
	}
}

// probe issues a GET and treats any non-2xx response as a failure.
func (m *Monitor) probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

// fetch issues a GET and returns the body of a 2xx response.
func (m *Monitor) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
