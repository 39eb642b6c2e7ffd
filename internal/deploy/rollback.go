package deploy

import (
	"context"
	"fmt"
)

// rollback unwinds already-deployed services in the reverse of their
// deployment order. Services recorded as failed are skipped: there is nothing
// of theirs to restore. A failing rollback step is not retried; it escalates
// to manual intervention.
func (o *Orchestrator) rollback(ctx context.Context, run *Run) error {
	run.Info("Starting rollback of %d recorded services", len(run.DeployOrder))

	for i := len(run.DeployOrder) - 1; i >= 0; i-- {
		name := run.DeployOrder[i]
		if run.Services[name].Status != ServiceDeployed {
			run.Info("Skipping rollback of %s (never deployed)", name)
			continue
		}

		deployer := o.deployerFor(o.cfg.Services[name])
		if err := deployer.Rollback(ctx, run.Environment, name); err != nil {
			run.Error(err, "Rollback failed for %s: manual intervention required", name)
			return fmt.Errorf("rollback failed for %s, manual intervention required: %w", name, err)
		}
		run.Info("Rolled back %s", name)
	}

	run.Info("Rollback complete")
	return nil
}
