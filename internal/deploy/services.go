package deploy

import (
	"context"
	"fmt"
	"path/filepath"

	"questctl/internal/config"
	"questctl/internal/platform"
)

// deployServices deploys every enabled service in declaration order. The
// first failure records the service as failed and aborts the phase; the
// failure record is what rollback later consults.
func (o *Orchestrator) deployServices(ctx context.Context, run *Run) error {
	for _, name := range o.cfg.ServiceOrder() {
		svc := o.cfg.Services[name]
		if !svc.Enabled {
			run.Info("Skipping disabled service %s", name)
			continue
		}

		if err := o.deployService(ctx, run, name, svc); err != nil {
			run.RecordFailed(name, err)
			return fmt.Errorf("deployment failed for service %s: %w", name, err)
		}
	}
	return nil
}

func (o *Orchestrator) deployService(ctx context.Context, run *Run, name string, svc config.ServiceConfig) error {
	dir := filepath.Join(o.projectDir, serviceDir(name))
	run.Info("Deploying %s (%s)", name, svc.Type)

	if _, err := o.runner.Run(ctx, dir, "npm", "ci"); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}

	if _, err := o.runner.Run(ctx, dir, "npm", "test"); err != nil {
		if run.Environment == config.EnvProduction {
			return fmt.Errorf("tests failed: %w", err)
		}
		run.Warn("Tests failed for %s (non-blocking in staging): %v", name, err)
	}

	deployer := o.deployerFor(svc)
	if err := deployer.Deploy(ctx, run.Environment, name, svc); err != nil {
		return err
	}

	version := platform.ResolveVersion(ctx, o.runner, dir)
	run.RecordDeployed(name, version)
	run.Info("Deployed %s version %s via %s", name, version, deployer.Platform())
	return nil
}

// serviceDir maps a service name to its directory in the checkout. The two
// known services have fixed homes; anything else lives under its own name.
func serviceDir(name string) string {
	switch name {
	case config.ServiceFrontend:
		return "frontend"
	case config.ServiceBackend:
		return "backend"
	default:
		return name
	}
}
