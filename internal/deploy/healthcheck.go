package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"questctl/internal/config"
)

// healthChecks verifies every deployed service answers on its health
// endpoint, retrying with a fixed delay between attempts. Exhausting the
// attempts for any one service aborts the phase.
func (o *Orchestrator) healthChecks(ctx context.Context, run *Run) error {
	attempts := o.cfg.Deployment.HealthCheckRetries
	interval := o.cfg.Deployment.HealthCheckInterval

	for _, name := range run.DeployOrder {
		if run.Services[name].Status != ServiceDeployed {
			continue
		}
		svc := o.cfg.Services[name]
		url := o.resolver.ServiceURL(run.Environment, name, svc) + svc.HealthCheck

		if err := o.waitHealthy(ctx, run, name, svc, url, attempts, interval); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) waitHealthy(ctx context.Context, run *Run, name string, svc config.ServiceConfig, url string, attempts int, interval time.Duration) error {
	for attempt := 1; attempt <= attempts; attempt++ {
		err := o.checkOnce(ctx, svc, url)
		if err == nil {
			run.Info("Health check passed for %s (attempt %d/%d)", name, attempt, attempts)
			return nil
		}
		run.Warn("Health check attempt %d/%d failed for %s: %v", attempt, attempts, name, err)

		if attempt < attempts {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("health check failed for %s after %d attempts", name, attempts)
}

// checkOnce issues one health probe. API services must additionally report
// status "healthy" in their JSON body; a 2xx with any other status is still a
// failed attempt.
func (o *Orchestrator) checkOnce(ctx context.Context, svc config.ServiceConfig, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if svc.Type == config.ServiceTypeAPI {
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decoding health response: %w", err)
		}
		if body.Status != "healthy" {
			return fmt.Errorf("service reports status %q", body.Status)
		}
	}
	return nil
}
