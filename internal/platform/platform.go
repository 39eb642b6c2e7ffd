// Package platform holds the ports to the hosting platforms the quest
// tracker deploys to: a static-site host for the frontend bundle and a
// container-app host for the API. Everything the pipeline knows about a
// platform goes through the Deployer and URLResolver interfaces so real
// provider SDK adapters can replace the CLI-driven ones without touching
// pipeline logic.
package platform

import (
	"context"

	"questctl/internal/config"
)

// Deployer publishes one service to its hosting platform and can roll it
// back to the previously published version.
type Deployer interface {
	// Platform names the hosting platform, for logs and records.
	Platform() string

	// Deploy publishes the service for the given environment.
	Deploy(ctx context.Context, environment, service string, cfg config.ServiceConfig) error

	// Rollback restores the previously published version of the service.
	Rollback(ctx context.Context, environment, service string) error
}

// ForType returns the deployer responsible for a service type.
func ForType(t config.ServiceType, runner CommandRunner) Deployer {
	switch t {
	case config.ServiceTypeStatic:
		return NewStaticSiteDeployer(runner)
	default:
		return NewContainerAppDeployer(runner)
	}
}
