package platform

import (
	"fmt"

	"questctl/internal/config"
)

// URLResolver maps (environment, service) to the base URL the health-check
// and smoke-test phases should hit. Pluggable so a resolver backed by the
// hosting platform's API can replace the static table.
type URLResolver interface {
	ServiceURL(environment, service string, cfg config.ServiceConfig) string
}

// StaticResolver is a fixed lookup table with a loopback fallback built from
// the service's configured port.
type StaticResolver struct {
	table map[string]map[string]string
}

// NewStaticResolver returns the resolver with the known quest tracker URLs.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		table: map[string]map[string]string{
			config.EnvProduction: {
				config.ServiceFrontend: "https://quest-tracker.netlify.app",
				config.ServiceBackend:  "https://quest-tracker-api-production.up.railway.app",
			},
			config.EnvStaging: {
				config.ServiceFrontend: "https://staging--quest-tracker.netlify.app",
				config.ServiceBackend:  "https://quest-tracker-api-staging.up.railway.app",
			},
		},
	}
}

// ServiceURL resolves the base URL for a service in an environment.
func (r *StaticResolver) ServiceURL(environment, service string, cfg config.ServiceConfig) string {
	if envTable, ok := r.table[environment]; ok {
		if url, ok := envTable[service]; ok {
			return url
		}
	}
	return fmt.Sprintf("http://localhost:%d", cfg.Port)
}
