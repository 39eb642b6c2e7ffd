// Package deploy implements the deployment pipeline for the quest tracker:
// seven fixed phases from environment validation through post-deployment
// tasks, with reverse-order rollback of already-deployed services when a
// phase at or after deploy-services fails.
package deploy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"questctl/internal/config"
	"questctl/internal/notify"
	"questctl/internal/platform"
	"questctl/internal/store"
)

// Config wires the orchestrator's collaborators. Zero fields get production
// defaults; tests substitute fakes.
type Config struct {
	Deploy     config.DeployConfig
	Runner     platform.CommandRunner
	Resolver   platform.URLResolver
	Deployers  map[config.ServiceType]platform.Deployer
	Notifiers  []notify.Notifier
	Store      *store.Store
	HTTPClient *http.Client

	// ProjectDir is the checkout root containing frontend/ and backend/.
	ProjectDir string

	// PerfBaseURL overrides the scratch backend URL used by the performance
	// smoke test. Tests point it at a local test server.
	PerfBaseURL string
}

// Orchestrator drives one deployment pipeline execution for one environment.
type Orchestrator struct {
	cfg        config.DeployConfig
	runner     platform.CommandRunner
	resolver   platform.URLResolver
	deployers  map[config.ServiceType]platform.Deployer
	notifiers  []notify.Notifier
	store      *store.Store
	client     *http.Client
	projectDir string
	perfURL    string
}

// New creates an orchestrator, filling in production defaults for any
// collaborator not supplied.
func New(c Config) *Orchestrator {
	if c.Runner == nil {
		c.Runner = platform.ExecRunner{}
	}
	if c.Resolver == nil {
		c.Resolver = platform.NewStaticResolver()
	}
	if c.Deployers == nil {
		c.Deployers = map[config.ServiceType]platform.Deployer{
			config.ServiceTypeStatic: platform.ForType(config.ServiceTypeStatic, c.Runner),
			config.ServiceTypeAPI:    platform.ForType(config.ServiceTypeAPI, c.Runner),
		}
	}
	if c.Notifiers == nil {
		n := c.Deploy.Notifications
		c.Notifiers = notify.FromSettings(n.Slack, n.Email, n.Webhook)
	}
	if c.Store == nil {
		c.Store = store.New("deployments", "monitoring")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}

	return &Orchestrator{
		cfg:        c.Deploy,
		runner:     c.Runner,
		resolver:   c.Resolver,
		deployers:  c.Deployers,
		notifiers:  c.Notifiers,
		store:      c.Store,
		client:     c.HTTPClient,
		projectDir: c.ProjectDir,
		perfURL:    c.PerfBaseURL,
	}
}

// Phases returns the pipeline in its fixed order.
func (o *Orchestrator) Phases() []Phase {
	return []Phase{
		{Name: "validate-environment", Run: o.validateEnvironment},
		{Name: "pre-deployment-checks", Run: o.preDeploymentChecks},
		{Name: "deploy-services", Run: o.deployServices},
		{Name: "health-checks", Run: o.healthChecks},
		{Name: "smoke-tests", Run: o.smokeTests},
		{Name: "traffic-routing-update", Run: o.updateTrafficRouting},
		{Name: "post-deployment-tasks", Run: o.postDeploymentTasks},
	}
}

// Execute runs the full pipeline for a fresh run and returns the pipeline
// error, if any. On failure a rollback is attempted when the failing phase is
// at or after deploy-services, and a failure record is persisted either way.
func (o *Orchestrator) Execute(ctx context.Context) error {
	run := NewRun(o.cfg.Environment)
	run.Info("Starting deployment %s to %s (strategy: %s)",
		run.ID, run.Environment, o.cfg.Deployment.Strategy)

	err := ExecutePipeline(ctx, run, o.Phases())
	if err == nil {
		run.Info("Deployment %s completed in %.1fs", run.ID, time.Since(run.StartTime).Seconds())
		return nil
	}

	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		run.Error(phaseErr.Err, "Pipeline failed at phase %d (%s)", phaseErr.Index, phaseErr.Name)
		if RollbackEligible(phaseErr.Index) {
			if rbErr := o.rollback(ctx, run); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	} else {
		run.Error(err, "Pipeline failed")
	}

	record := run.BuildRecord("failed", err.Error())
	if saveErr := o.store.SaveDeployment(run.ID, true, record); saveErr != nil {
		run.Error(saveErr, "Failed to persist failure record")
	} else {
		run.Info("Failure record saved to %s", o.store.DeploymentPath(run.ID, true))
	}

	return err
}

func (o *Orchestrator) deployerFor(svc config.ServiceConfig) platform.Deployer {
	if d, ok := o.deployers[svc.Type]; ok {
		return d
	}
	return o.deployers[config.ServiceTypeAPI]
}
