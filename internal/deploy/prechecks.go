package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"questctl/internal/config"
)

// deniedPackages are dependencies that block deployment outright, regardless
// of environment: packages with a known-malicious release history or that are
// broken beyond use.
var deniedPackages = []string{
	"event-stream",
	"flatmap-stream",
	"left-pad",
}

// perfLatencyWarn is the soft single-request latency threshold for the
// performance smoke test.
const perfLatencyWarn = 1000 * time.Millisecond

// perfConcurrency is how many concurrent sample requests the performance
// smoke test issues; all of them must succeed.
const perfConcurrency = 10

// preDeploymentChecks runs the gate checks in order: security audit,
// dependency denylist, performance smoke test, migration placeholder.
func (o *Orchestrator) preDeploymentChecks(ctx context.Context, run *Run) error {
	if err := o.securityAudit(ctx, run); err != nil {
		return err
	}
	if err := o.checkDeniedDependencies(run); err != nil {
		return err
	}
	if err := o.performanceSmokeTest(ctx, run); err != nil {
		return err
	}
	o.runMigrations(run)
	return nil
}

// securityAudit runs npm audit. Findings are fatal in production and a
// warning in staging.
func (o *Orchestrator) securityAudit(ctx context.Context, run *Run) error {
	_, err := o.runner.Run(ctx, filepath.Join(o.projectDir, "backend"), "npm", "audit", "--audit-level=high")
	if err == nil {
		run.Info("Security audit passed")
		return nil
	}

	if run.Environment == config.EnvProduction {
		return fmt.Errorf("security audit found vulnerabilities: %w", err)
	}
	run.Warn("Security audit found vulnerabilities (non-blocking in staging): %v", err)
	return nil
}

// checkDeniedDependencies scans every service's package.json for denylisted
// packages. A hit is always fatal, in every environment.
func (o *Orchestrator) checkDeniedDependencies(run *Run) error {
	for _, dir := range []string{"frontend", "backend"} {
		path := filepath.Join(o.projectDir, dir, "package.json")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var pkg struct {
			Dependencies    map[string]string `json:"dependencies"`
			DevDependencies map[string]string `json:"devDependencies"`
		}
		if err := json.Unmarshal(data, &pkg); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		for _, denied := range deniedPackages {
			if _, ok := pkg.Dependencies[denied]; ok {
				return fmt.Errorf("denylisted dependency %q found in %s/package.json", denied, dir)
			}
			if _, ok := pkg.DevDependencies[denied]; ok {
				return fmt.Errorf("denylisted dependency %q found in %s/package.json", denied, dir)
			}
		}
	}

	run.Info("Dependency denylist check passed")
	return nil
}

// performanceSmokeTest boots the backend on a scratch port, measures a single
// request's latency against the soft threshold, then issues concurrent sample
// requests which must all succeed.
func (o *Orchestrator) performanceSmokeTest(ctx context.Context, run *Run) error {
	backend := o.cfg.Services[config.ServiceBackend]
	scratchPort := backend.Port + 1000

	baseURL := o.perfURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", scratchPort)

		stop, err := o.runner.Start(ctx, filepath.Join(o.projectDir, "backend"),
			[]string{fmt.Sprintf("PORT=%d", scratchPort)}, "node", "server.js")
		if err != nil {
			return fmt.Errorf("starting backend for performance check: %w", err)
		}
		defer stop()

		// Give the server a moment to bind before the first request.
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	start := time.Now()
	if err := o.get(ctx, baseURL+"/health", o.client); err != nil {
		return fmt.Errorf("performance check request failed: %w", err)
	}
	latency := time.Since(start)
	if latency > perfLatencyWarn {
		run.Warn("Single-request latency %dms exceeds %dms", latency.Milliseconds(), perfLatencyWarn.Milliseconds())
	} else {
		run.Info("Single-request latency: %dms", latency.Milliseconds())
	}

	var wg sync.WaitGroup
	errs := make([]error, perfConcurrency)
	for i := 0; i < perfConcurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = o.get(ctx, baseURL+"/api/quests", o.client)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("concurrent load check failed: %w", err)
		}
	}
	run.Info("Concurrent load check passed (%d requests)", perfConcurrency)
	return nil
}

// runMigrations is a placeholder: the quest tracker keeps its data in memory,
// so there is never anything to migrate.
func (o *Orchestrator) runMigrations(run *Run) {
	run.Info("No database migrations required (in-memory data store)")
	if run.Environment == config.EnvProduction {
		run.Info("Production run: verify data snapshots before introducing a persistent store")
	}
}

// get issues a GET and treats any non-2xx status as an error.
func (o *Orchestrator) get(ctx context.Context, url string, client *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return nil
}
