package deploy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"questctl/internal/config"
)

// criticalAPIPaths are the endpoints a freshly deployed backend must answer.
var criticalAPIPaths = []string{
	"/api/status",
	"/api/quests",
}

const smokeTimeout = 15 * time.Second

// smokeTests hits the critical API endpoints and confirms basic frontend
// connectivity. Any non-2xx response aborts the phase naming the endpoint.
func (o *Orchestrator) smokeTests(ctx context.Context, run *Run) error {
	client := &http.Client{Timeout: smokeTimeout}

	backendURL := o.resolver.ServiceURL(run.Environment, config.ServiceBackend, o.cfg.Services[config.ServiceBackend])
	for _, path := range criticalAPIPaths {
		url := backendURL + path
		if err := o.get(ctx, url, client); err != nil {
			return fmt.Errorf("smoke test failed for %s: %w", path, err)
		}
		run.Info("Smoke test passed: %s", path)
	}

	frontendURL := o.resolver.ServiceURL(run.Environment, config.ServiceFrontend, o.cfg.Services[config.ServiceFrontend])
	if err := o.get(ctx, frontendURL, client); err != nil {
		return fmt.Errorf("smoke test failed for frontend: %w", err)
	}
	run.Info("Smoke test passed: frontend connectivity")

	return nil
}
